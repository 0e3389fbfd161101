// 包 analysis：一次分析的编排（检测 → 分类/离线回退 → 定位 → 地理信息 → 历史）
package analysis

import (
	"context"
	"errors"
	"time"

	"patrio-api/internal/catalog"
	"patrio-api/internal/classifier"
	"patrio-api/internal/geo"
	"patrio-api/internal/history"
	"patrio-api/internal/locate"
	"patrio-api/internal/logger"
	"patrio-api/internal/metrics"
	"patrio-api/internal/osm"
	"patrio-api/internal/vision"
)

// 默认参数
const (
	DefaultConfidenceThreshold = 70
	DefaultNearbyRadiusKm      = 10.0
	DefaultSiteRadiusKm        = 1.0
)

// Detector 远程检测（*vision.Client）
type Detector interface {
	Detect(ctx context.Context, img vision.Image) (vision.Detection, error)
}

// Locator 位置解析（*locate.Resolver）
type Locator interface {
	Resolve(ctx context.Context, pos *geo.Coordinate, clientIP string) locate.Result
}

// SiteFinder OSM 历史遗迹（*osm.Client）
type SiteFinder interface {
	HistoricSites(ctx context.Context, lat, lon, radiusKm float64) ([]osm.HistoricSite, error)
}

// Request：一次分析的输入
type Request struct {
	Image    vision.Image
	ImageRef string
	Position *geo.Coordinate
	ClientIP string
}

// NearbyBuilding 附近的已知建筑
type NearbyBuilding struct {
	Building   catalog.Building `json:"building"`
	DistanceKm float64          `json:"distance_km"`
	Directions geo.Directions   `json:"directions"`
}

// Report：分析结果
type Report struct {
	Classification   classifier.Result  `json:"analysis"`
	Location         locate.Result      `json:"location"`
	InHistoricalArea bool               `json:"in_historical_area"`
	Zones            []geo.Zone         `json:"zones"`
	Nearby           []NearbyBuilding   `json:"nearby"`
	KnownBuilding    *catalog.Building  `json:"known_building,omitempty"`
	HistoricSites    []osm.HistoricSite `json:"historic_sites,omitempty"`
	Reliable         bool               `json:"reliable"`
	HistoryID        string             `json:"history_id,omitempty"`
	DurationMs       int64              `json:"duration_ms"`
}

// Options 服务参数
type Options struct {
	ConfidenceThreshold int
	NearbyRadiusKm      float64
	SiteRadiusKm        float64
}

// Service：分析编排；除 classifier 与 catalog 外的依赖均可为空
type Service struct {
	detector   Detector
	classifier *classifier.Classifier
	catalog    *catalog.Catalog
	locator    Locator
	sites      SiteFinder
	history    history.Log
	opts       Options
}

// Deps 依赖集合
type Deps struct {
	Detector   Detector
	Classifier *classifier.Classifier
	Catalog    *catalog.Catalog
	Locator    Locator
	Sites      SiteFinder
	History    history.Log
}

func NewService(d Deps, opts Options) *Service {
	if d.Classifier == nil {
		d.Classifier = classifier.New()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.NearbyRadiusKm <= 0 {
		opts.NearbyRadiusKm = DefaultNearbyRadiusKm
	}
	if opts.SiteRadiusKm <= 0 {
		opts.SiteRadiusKm = DefaultSiteRadiusKm
	}
	return &Service{
		detector:   d.Detector,
		classifier: d.Classifier,
		catalog:    d.Catalog,
		locator:    d.Locator,
		sites:      d.Sites,
		history:    d.History,
		opts:       opts,
	}
}

// Offline 未配置远程检测
func (s *Service) Offline() bool { return s.detector == nil }

// 文档注释：执行一次分析
// 背景：任一环节失败都不中断流程，分类失败回退离线模拟，定位失败回退兜底位置。
// 约束：历史最多写入一次，写入失败只记录日志；ctx 到期时远程检测失败并走离线回退。
func (s *Service) Analyze(ctx context.Context, req Request) Report {
	start := time.Now()
	l := logger.L()

	res, det := s.classify(ctx, req.Image)
	kind := string(res.BuildingCategory)
	if res.IsObject() {
		kind = "object"
	}
	metrics.ClassificationsTotal.WithLabelValues(kind).Inc()

	var loc locate.Result
	if s.locator != nil {
		loc = s.locator.Resolve(ctx, req.Position, req.ClientIP)
	} else if req.Position != nil && req.Position.Valid() {
		loc = locate.Result{Latitude: req.Position.Latitude, Longitude: req.Position.Longitude, Address: locate.AddressUnavailable}
	} else {
		loc = locate.DemoLocation()
	}

	rep := Report{
		Classification: res,
		Location:       loc,
		Reliable:       res.Confidence >= s.opts.ConfidenceThreshold,
	}
	s.enrichGeo(ctx, &rep)
	if b, ok := s.catalog.Match(det.Labels, det.Objects); ok {
		rep.KnownBuilding = &b
	}

	if s.history != nil {
		e := history.NewEntry(req.ImageRef, res, loc)
		if err := s.history.Append(ctx, e); err != nil {
			metrics.HistoryAppendFailTotal.Inc()
			l.Warn("history_append_error", "err", err)
		} else {
			rep.HistoryID = e.ID
		}
	}

	rep.DurationMs = time.Since(start).Milliseconds()
	metrics.AnalysesTotal.Inc()
	metrics.AnalysisDurationMs.Observe(float64(rep.DurationMs))
	l.Info("analysis_done",
		"category", res.BuildingCategory,
		"confidence", res.Confidence,
		"offline", res.IsOfflineAnalysis,
		"city", loc.City,
		"ms", rep.DurationMs)
	return rep
}

func (s *Service) classify(ctx context.Context, img vision.Image) (classifier.Result, vision.Detection) {
	l := logger.L()
	if s.detector == nil {
		metrics.OfflineFallbackTotal.WithLabelValues("no_detector").Inc()
		return s.simulate(), vision.Detection{}
	}
	det, err := s.detector.Detect(ctx, img)
	if err != nil {
		reason := "detector_error"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, vision.ErrEmptyResponse):
			reason = "empty_response"
		}
		metrics.OfflineFallbackTotal.WithLabelValues(reason).Inc()
		l.Warn("analysis_offline_fallback", "reason", reason, "err", err)
		return s.simulate(), vision.Detection{}
	}
	if det.Empty() {
		metrics.OfflineFallbackTotal.WithLabelValues("no_detections").Inc()
		l.Info("analysis_offline_fallback", "reason", "no_detections")
		return s.simulate(), det
	}
	return s.classifier.Classify(det.Labels, det.Objects), det
}

// simulate 离线模拟；故障哨兵只记录，不改变返回
func (s *Service) simulate() classifier.Result {
	res := s.classifier.Simulate()
	if res.IsError() {
		metrics.OfflineFallbackTotal.WithLabelValues("simulation_error").Inc()
		logger.L().Warn("analysis_simulation_error")
	}
	return res
}

func (s *Service) enrichGeo(ctx context.Context, rep *Report) {
	pos := geo.Coordinate{Latitude: rep.Location.Latitude, Longitude: rep.Location.Longitude}
	rep.Zones = []geo.Zone{}
	rep.Nearby = []NearbyBuilding{}
	if !pos.Valid() {
		return
	}
	rep.Zones = geo.ZonesContaining(geo.DefaultZones, pos)
	rep.InHistoricalArea = len(rep.Zones) > 0
	for _, m := range s.catalog.Nearby(pos.Latitude, pos.Longitude, s.opts.NearbyRadiusKm) {
		rep.Nearby = append(rep.Nearby, NearbyBuilding{
			Building:   m.Item,
			DistanceKm: m.DistanceKm,
			Directions: geo.DirectionsTo(pos.Latitude, pos.Longitude, m.Item.Coordinates.Latitude, m.Item.Coordinates.Longitude),
		})
	}
	if s.sites == nil || rep.Location.Source == locate.SourceDemo {
		return
	}
	sites, err := s.sites.HistoricSites(ctx, pos.Latitude, pos.Longitude, s.opts.SiteRadiusKm)
	if err != nil {
		logger.L().Warn("historic_sites_error", "err", err)
		return
	}
	rep.HistoricSites = sites
}
