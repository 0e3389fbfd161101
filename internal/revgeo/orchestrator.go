package revgeo

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"patrio-api/internal/geo"
)

// Options 编排器参数
type Options struct {
	CacheTTL    time.Duration // 默认 1h
	CacheSize   int           // 条目上限，超出时清空；默认 4096
	MaxRadiusKm float64       // 最近邻最大半径，默认 50
}

// 文档注释：查询编排器
// 背景：geohash(6) 缓存 → 包围盒过滤 → 多边形精确命中 → KD-Tree 最近邻兜底 → 空结果。
// 约束：快照只读；缓存只保存名称，不保存几何。
type Orchestrator struct {
	snap        *Snapshot
	kd          *kdNode
	cache       *cache.Cache
	cacheSize   int
	maxRadiusKm float64
}

type cached struct {
	res Result
}

func NewOrchestrator(snap *Snapshot, opts Options) *Orchestrator {
	if snap == nil {
		snap = &Snapshot{Centroids: DefaultCentroids(), BuiltAt: time.Now()}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 4096
	}
	if opts.MaxRadiusKm <= 0 {
		opts.MaxRadiusKm = 50
	}
	var kd *kdNode
	if len(snap.Centroids) > 0 {
		kd = buildKD(append([]Centroid(nil), snap.Centroids...), 0)
	}
	return &Orchestrator{
		snap:        snap,
		kd:          kd,
		cache:       cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		cacheSize:   opts.CacheSize,
		maxRadiusKm: opts.MaxRadiusKm,
	}
}

// 文档注释：反地理查询
// 返回：多边形命中按最细层级给出 0.9 / 0.8 / 0.7；最近邻 0.6（超过 30km 为 0.5）；无结果为零值且 Approx=true。
func (o *Orchestrator) Query(lat, lon float64) Result {
	if !(geo.Coordinate{Latitude: lat, Longitude: lon}).Valid() {
		return Result{Approx: true}
	}
	key := geo.Geohash(lat, lon, 6)
	if v, ok := o.cache.Get(key); ok {
		return v.(cached).res
	}
	res := o.lookup(lat, lon)
	if !res.Unit.Empty() {
		if o.cache.ItemCount() >= o.cacheSize {
			o.cache.Flush()
		}
		o.cache.Set(key, cached{res: res}, cache.DefaultExpiration)
	}
	return res
}

func (o *Orchestrator) lookup(lat, lon float64) Result {
	pt := orb.Point{lon, lat}
	for _, u := range o.snap.Units {
		if !u.bound.Contains(pt) {
			continue
		}
		if planar.MultiPolygonContains(u.geom, pt) {
			conf := 0.7
			switch {
			case u.District != "" || u.City != "":
				conf = 0.9
			case u.State != "":
				conf = 0.8
			}
			return Result{Unit: u.names(), Confidence: conf}
		}
	}
	if o.kd != nil {
		c, d := o.kd.nearest(lat, lon)
		if d <= o.maxRadiusKm {
			conf := 0.6
			if d > 30 {
				conf = 0.5
			}
			return Result{Unit: c.unit(), Confidence: conf, Approx: true, DistanceKm: geo.DistanceKm(lat, lon, c.Lat, c.Lon)}
		}
	}
	return Result{Approx: true}
}

// Stats 快照规模
func (o *Orchestrator) Stats() (units, centroids int) {
	return len(o.snap.Units), len(o.snap.Centroids)
}
