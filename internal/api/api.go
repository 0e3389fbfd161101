// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patrio-api/internal/analysis"
	"patrio-api/internal/catalog"
	"patrio-api/internal/history"
	"patrio-api/internal/locate"
	"patrio-api/internal/logger"
	"patrio-api/internal/metrics"
	"patrio-api/internal/store"
	"patrio-api/internal/upload"
)

// Deps：路由依赖；Store 为空时不注册登记接口
type Deps struct {
	Store           *store.Store
	Uploads         *upload.Saver
	Analysis        *analysis.Service
	Resolver        *locate.Resolver
	History         history.Log
	Catalog         *catalog.Catalog
	AnalysisTimeout time.Duration
}

type server struct {
	Deps
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 API_BASE 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Resolver == nil {
		d.Resolver = locate.NewResolver(nil)
	}
	if d.Analysis == nil {
		d.Analysis = analysis.NewService(analysis.Deps{Catalog: d.Catalog, Locator: d.Resolver, History: d.History}, analysis.Options{})
	}
	if d.AnalysisTimeout <= 0 {
		d.AnalysisTimeout = 30 * time.Second
	}
	s := &server{Deps: d}
	mux := http.NewServeMux()

	if d.Store != nil {
		mux.HandleFunc("POST /casaroes/upload", s.createCasarao)
		mux.HandleFunc("GET /casaroes", s.listCasaroes)
		mux.HandleFunc("GET /casaroes/{id}", s.getCasarao)
		mux.HandleFunc("PUT /casaroes/{id}", s.updateCasarao)
		mux.HandleFunc("DELETE /casaroes/{id}", s.deleteCasarao)
	}

	mux.HandleFunc("POST /analyze", s.analyze)
	mux.HandleFunc("GET /history", s.history)
	mux.HandleFunc("DELETE /history", s.clearHistory)
	mux.HandleFunc("GET /location", s.location)

	mux.HandleFunc("GET /geo/distance", s.distance)
	mux.HandleFunc("GET /geo/directions", s.directions)
	mux.HandleFunc("GET /geo/historical-area", s.historicalArea)
	mux.HandleFunc("GET /zones", s.zones)

	mux.HandleFunc("GET /buildings", s.buildings)
	mux.HandleFunc("GET /buildings/nearby", s.nearbyBuildings)
	mux.HandleFunc("GET /buildings/{id}", s.building)

	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// healthResponse 健康检查结果；未配置数据库时 database 为 "disabled"
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Offline  bool   `json:"offline"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{Status: "ok", Database: "disabled", Offline: s.Analysis.Offline()}
	if s.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Store.Ping(ctx); err != nil {
			logger.L().Warn("health_db_error", "err", err)
			res.Status, res.Database = "degraded", "down"
			writeJSON(w, http.StatusServiceUnavailable, res)
			return
		}
		res.Database = "up"
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// paramError 查询参数缺失或非法
type paramError struct{ name string }

func (e paramError) Error() string { return "parâmetro inválido: " + e.name }

func floatParam(r *http.Request, name string) (float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return 0, paramError{name}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, paramError{name}
	}
	return f, nil
}

func optionalFloatParam(r *http.Request, name string, def float64) (float64, error) {
	if r.URL.Query().Get(name) == "" {
		return def, nil
	}
	return floatParam(r, name)
}

// floatPair 同时读取两个必填参数
func floatPair(r *http.Request, a, b string) (float64, float64, error) {
	x, err := floatParam(r, a)
	if err != nil {
		return 0, 0, err
	}
	y, err := floatParam(r, b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, fmt.Sprint(err))
}
