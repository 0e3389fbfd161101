// 包 geo：地理计算原语（球面距离、方位、历史街区包含判定、近邻筛选）
package geo

import "math"

// EarthRadiusKm 地球平均半径（千米）
const EarthRadiusKm = 6371.0

// Coordinate：WGS84 十进制度坐标
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid：有限值且纬度在 [-90,90]、经度在 [-180,180]
func (c Coordinate) Valid() bool {
	return validLat(c.Latitude) && validLon(c.Longitude)
}

func validLat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -90 && v <= 90
}

func validLon(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -180 && v <= 180
}

// DegToRad 角度转弧度
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// HaversineKm：未取整的球面距离（千米），供空间索引内部比较使用
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := DegToRad(lat2 - lat1)
	dLon := DegToRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(DegToRad(lat1))*math.Cos(DegToRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// 文档注释：两点间距离（千米，保留两位小数）
// 约束：任一坐标非法（越界、NaN、Inf）时返回 0，不返回计算值；相同坐标返回 0。
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if !validLat(lat1) || !validLat(lat2) || !validLon(lon1) || !validLon(lon2) {
		return 0
	}
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	return round2(HaversineKm(lat1, lon1, lat2, lon2))
}

// Distance 坐标版本的 DistanceKm
func Distance(a, b Coordinate) float64 {
	return DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
