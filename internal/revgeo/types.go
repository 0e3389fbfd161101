// 包 revgeo：离线反地理编码（多边形命中 → 质心最近邻），用于远端地理编码不可用时的城市级兜底
package revgeo

import (
	"time"

	"github.com/paulmach/orb"
)

// 文档注释：行政区单元
// 约束：几何仅支持 Polygon / MultiPolygon；Bound 为几何包围盒，加载时计算。
type AdminUnit struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
	District string `json:"district,omitempty"`

	geom  orb.MultiPolygon
	bound orb.Bound
}

// Empty：无任何名称
func (u AdminUnit) Empty() bool {
	return u.Country == "" && u.State == "" && u.City == "" && u.District == ""
}

// names 去掉几何后的副本，用于缓存与返回
func (u AdminUnit) names() AdminUnit {
	return AdminUnit{Country: u.Country, State: u.State, City: u.City, District: u.District}
}

// Centroid：最近邻兜底用质心
type Centroid struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Country  string  `json:"country"`
	State    string  `json:"state"`
	City     string  `json:"city"`
	District string  `json:"district,omitempty"`
}

func (c Centroid) unit() AdminUnit {
	return AdminUnit{Country: c.Country, State: c.State, City: c.City, District: c.District}
}

// Snapshot：加载结果，只读共享
type Snapshot struct {
	Units     []AdminUnit
	Centroids []Centroid
	BuiltAt   time.Time
}

// Result：一次查询结果；Approx 表示非多边形精确命中
type Result struct {
	Unit       AdminUnit `json:"unit"`
	Confidence float64   `json:"confidence"`
	Approx     bool      `json:"approx"`
	DistanceKm float64   `json:"distance_km,omitempty"`
}
