package geo

import (
	"fmt"
	"math"
	"time"
)

// 八方位名称，自正北顺时针，每 45° 一个扇区
var compassPoints = [8]string{"Norte", "Nordeste", "Leste", "Sudeste", "Sul", "Sudoeste", "Oeste", "Noroeste"}

// WalkingSpeedKmH 步行速度估算
const WalkingSpeedKmH = 5.0

// 文档注释：由经纬度增量计算八方位
// 背景：短距离平面近似，atan2(Δlon, Δlat) 得到自正北顺时针角度后按 45° 量化。
// 约束：零增量与非有限值返回 "Norte"。
func BearingDirection(dLat, dLon float64) string {
	if math.IsNaN(dLat) || math.IsNaN(dLon) || math.IsInf(dLat, 0) || math.IsInf(dLon, 0) {
		return compassPoints[0]
	}
	if dLat == 0 && dLon == 0 {
		return compassPoints[0]
	}
	deg := math.Atan2(dLon, dLat) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/45)) % 8
	return compassPoints[idx]
}

// Directions：前往目标的直线距离、方位与步行耗时估算
// 约束：EstimatedTime 不序列化；JSON 输出分钟数与可读文本。
type Directions struct {
	DistanceKm       float64       `json:"distance_km"`
	Direction        string        `json:"direction"`
	EstimatedTime    time.Duration `json:"-"`
	EstimatedMinutes float64       `json:"estimated_minutes"`
	EstimatedText    string        `json:"estimated_time"`
	Summary          string        `json:"summary"`
}

// formatETA 向上取整到分钟："8 min"、"1 h 05 min"
func formatETA(d time.Duration) string {
	m := int(math.Ceil(d.Minutes()))
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d h %02d min", m/60, m%60)
}

// 文档注释：组合距离与方位
// 约束：耗时按 WalkingSpeedKmH 线性换算，随距离严格递增；不做路径规划。
func DirectionsTo(userLat, userLon, targetLat, targetLon float64) Directions {
	d := DistanceKm(userLat, userLon, targetLat, targetLon)
	dir := BearingDirection(targetLat-userLat, targetLon-userLon)
	eta := time.Duration(d / WalkingSpeedKmH * float64(time.Hour))
	return Directions{
		DistanceKm:       d,
		Direction:        dir,
		EstimatedTime:    eta,
		EstimatedMinutes: math.Round(eta.Minutes()*10) / 10,
		EstimatedText:    formatETA(eta),
		Summary:          fmt.Sprintf("%s a %.2f km de distância", dir, d),
	}
}
