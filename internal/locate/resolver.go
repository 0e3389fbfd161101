package locate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"patrio-api/internal/geo"
	"patrio-api/internal/ipgeo"
	"patrio-api/internal/logger"
	"patrio-api/internal/metrics"
)

// IPLocator 抽象 *ipgeo.Locator
type IPLocator interface {
	Lookup(ip string) (ipgeo.Area, bool)
}

// Resolver：坐标 → 地址；无坐标时按 IP 粗定位，最后回退演示位置
type Resolver struct {
	geocoders []Geocoder
	rdb       *redis.Client
	ttl       time.Duration
	ip        IPLocator
}

// Option 构造选项
type Option func(*Resolver)

// WithCache 启用 Redis 缓存；rdb 为 nil 时忽略
func WithCache(rdb *redis.Client, ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		r.rdb, r.ttl = rdb, ttl
	}
}

// WithIPLocator 设置 IP 定位
func WithIPLocator(l IPLocator) Option {
	return func(r *Resolver) { r.ip = l }
}

// NewResolver 按顺序尝试 geocoders；nil 项被忽略
func NewResolver(geocoders []Geocoder, opts ...Option) *Resolver {
	r := &Resolver{}
	for _, g := range geocoders {
		if g != nil {
			r.geocoders = append(r.geocoders, g)
		}
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func cacheKey(lat, lon float64) string {
	return "patrio:revgeo:" + geo.Geohash(lat, lon, 8)
}

// 文档注释：解析位置
// 背景：位置服务不可用时分析流程仍需继续，因此本方法不返回错误。
// 约束：pos 非空且合法时按坐标反查；全部编码器失败时保留坐标并返回兜底文案，
// 若所有失败均为“无结果”则用 "Endereço não encontrado"，否则 "Erro ao obter endereço"。
func (r *Resolver) Resolve(ctx context.Context, pos *geo.Coordinate, clientIP string) Result {
	if pos != nil && pos.Valid() {
		return r.Reverse(ctx, pos.Latitude, pos.Longitude)
	}
	if pos != nil {
		logger.L().Debug("locate_invalid_coordinate", "lat", pos.Latitude, "lon", pos.Longitude)
	}
	if res, ok := r.FromIP(clientIP); ok {
		return res
	}
	return DemoLocation()
}

// Reverse 坐标反查（含缓存）
func (r *Resolver) Reverse(ctx context.Context, lat, lon float64) Result {
	l := logger.L()
	if res, ok := r.cached(ctx, lat, lon); ok {
		return res
	}
	if len(r.geocoders) == 0 {
		return failure(lat, lon, AddressNotFound)
	}
	var lastErr error
	for _, g := range r.geocoders {
		res, err := g.Reverse(ctx, lat, lon)
		if err == nil {
			r.store(ctx, lat, lon, res)
			return res
		}
		if !errors.Is(err, ErrNotFound) {
			lastErr = err
			l.Warn("geocode_error", "geocoder", g.Name(), "err", err)
		}
	}
	if lastErr != nil {
		return failure(lat, lon, AddressError)
	}
	return failure(lat, lon, AddressNotFound)
}

// FromIP 按客户端 IP 粗定位；仅采用带坐标的结果
func (r *Resolver) FromIP(clientIP string) (Result, bool) {
	if r.ip == nil || strings.TrimSpace(clientIP) == "" {
		return Result{}, false
	}
	a, ok := r.ip.Lookup(clientIP)
	if !ok || !a.HasCoordinates {
		return Result{}, false
	}
	return Result{
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		Address:   FormatAddress(AddressParts{City: a.City, State: a.State, Country: a.Country}),
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		Source:    "ip:" + a.Source,
	}.orUnknown(), true
}

// IPArea 原始 IP 定位结果（含仅有名称的 ip2region 记录）
func (r *Resolver) IPArea(clientIP string) (ipgeo.Area, bool) {
	if r.ip == nil || clientIP == "" {
		return ipgeo.Area{}, false
	}
	return r.ip.Lookup(clientIP)
}

func (r *Resolver) cached(ctx context.Context, lat, lon float64) (Result, bool) {
	if r.rdb == nil {
		return Result{}, false
	}
	b, err := r.rdb.Get(ctx, cacheKey(lat, lon)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("geocode_cache_get_error", "err", err)
		}
		metrics.RedisMissesTotal.Inc()
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(b, &res); err != nil {
		metrics.RedisMissesTotal.Inc()
		return Result{}, false
	}
	metrics.RedisHitsTotal.Inc()
	res.Latitude, res.Longitude = lat, lon
	res.Source = SourceCache
	return res, true
}

func (r *Resolver) store(ctx context.Context, lat, lon float64, res Result) {
	if r.rdb == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, cacheKey(lat, lon), b, r.ttl).Err(); err != nil {
		logger.L().Warn("geocode_cache_set_error", "err", err)
	}
}
