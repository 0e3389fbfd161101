// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"patrio-api/internal/analysis"
	"patrio-api/internal/api"
	"patrio-api/internal/catalog"
	"patrio-api/internal/classifier"
	"patrio-api/internal/config"
	"patrio-api/internal/history"
	"patrio-api/internal/ipgeo"
	"patrio-api/internal/locate"
	"patrio-api/internal/logger"
	"patrio-api/internal/middleware"
	"patrio-api/internal/migrate"
	"patrio-api/internal/osm"
	"patrio-api/internal/revgeo"
	"patrio-api/internal/store"
	"patrio-api/internal/upload"
	"patrio-api/internal/utils"
	"patrio-api/internal/vision"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.Load()
	l.Debug("config_api_base", "base", cfg.APIBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 登记库（casaroes）
	var st *store.Store
	if db, err := utils.OpenDBFromEnv(cfg.DBDriver); err != nil {
		l.Error("db_open_error", "driver", cfg.DBDriver, "err", err)
	} else {
		st = store.Attach(db)
		if err := st.Ping(ctx); err != nil {
			l.Error("db_ping_error", "driver", cfg.DBDriver, "err", err)
			_ = st.Close()
			st = nil
		} else if err := migrate.EnsureSchema(st.DB()); err != nil {
			l.Error("schema_error", "err", err)
			_ = st.Close()
			st = nil
		} else {
			defer st.Close()
			l.Info("db_open_ok", "driver", cfg.DBDriver)
		}
	}

	var rc *redis.Client
	if cfg.RedisEnabled {
		rc = utils.OpenRedisFromEnv()
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
			_ = rc.Close()
			rc = nil
		} else {
			l.Info("redis_ping_ok")
			defer rc.Close()
		}
	} else {
		l.Info("redis_disabled")
	}

	var hist history.Log
	if rc != nil {
		hist = history.NewRedisLog(rc, cfg.HistoryKey, cfg.HistoryMaxItems)
	} else {
		hist = history.NewMemoryLog(cfg.HistoryMaxItems)
	}

	// 反地理：在线 Nominatim 优先，离线快照兜底
	snap, err := revgeo.LoadSnapshot(cfg.ReverseGeoDataDir)
	if err != nil {
		l.Warn("revgeo_snapshot_error", "dir", cfg.ReverseGeoDataDir, "err", err)
	}
	orch := revgeo.NewOrchestrator(snap, revgeo.Options{CacheTTL: cfg.ReverseGeoCacheTTL, MaxRadiusKm: cfg.ReverseGeoRadiusKm})
	units, centroids := orch.Stats()
	l.Info("revgeo_ready", "units", units, "centroids", centroids)

	var geocoders []locate.Geocoder
	if cfg.NominatimEnabled() {
		geocoders = append(geocoders, locate.NewNominatim(cfg.NominatimURL, &http.Client{Timeout: 8 * time.Second}))
	}
	geocoders = append(geocoders, locate.NewSnapshotGeocoder(orch))

	opts := []locate.Option{locate.WithCache(rc, cfg.GeocodeCacheTTL)}
	if loc, err := ipgeo.Open(cfg.GeoIPCityPath, cfg.IP2RegionV4Path); err != nil {
		l.Error("ipgeo_open_error", "err", err)
	} else if loc.Enabled() {
		defer loc.Close()
		opts = append(opts, locate.WithIPLocator(loc))
	}
	resolver := locate.NewResolver(geocoders, opts...)

	deps := analysis.Deps{
		Classifier: classifier.New(classifier.WithRand(classifier.NewSeededRand(cfg.RandomSeed))),
		Catalog:    catalog.Default(),
		Locator:    resolver,
		History:    hist,
	}
	if vc, err := vision.New(ctx, vision.Config{APIKey: cfg.VisionAPIKey, Endpoint: cfg.VisionEndpoint}); err == nil {
		deps.Detector = vc
		l.Info("vision_ready")
	} else if errors.Is(err, vision.ErrNotConfigured) {
		l.Info("vision_disabled", "mode", "offline")
	} else {
		l.Error("vision_init_error", "err", err)
	}
	if cfg.OverpassEnabled() {
		deps.Sites = osm.NewClient(cfg.OverpassURL, cfg.OverpassTimeout, nil)
	}
	svc := analysis.NewService(deps, analysis.Options{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		NearbyRadiusKm:      cfg.NearbyRadiusKm,
		SiteRadiusKm:        cfg.HistoricSitesRadius,
	})

	saver, err := upload.NewSaver(cfg.UploadDir)
	if err != nil {
		l.Error("upload_dir_error", "dir", cfg.UploadDir, "err", err)
		os.Exit(1)
	}

	apiMux := api.BuildRoutes(api.Deps{
		Store:           st,
		Uploads:         saver,
		Analysis:        svc,
		Resolver:        resolver,
		History:         hist,
		Catalog:         deps.Catalog,
		AnalysisTimeout: cfg.MaxAnalysisTime,
	})
	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Backend está rodando!"))
	})

	proxies := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if proxies.Empty() {
		l.Info("trusted_proxies_none", "note", "forwarded and edge geo headers ignored")
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler, cfg.RateLimitEnabled, cfg.RateLimitQPS, proxies)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		if err := utils.EnsureSelfSignedCert(certPath, keyPath, "patrio.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", certPath, "offline", svc.Offline())
		err = s.ListenAndServeTLS(certPath, keyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr, "offline", svc.Offline())
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}
