package geo

import (
	"errors"
	"fmt"
	"sort"
)

// Zone：以圆心与半径（千米）界定的历史街区
type Zone struct {
	Name        string     `json:"name"`
	Center      Coordinate `json:"center"`
	RadiusKm    float64    `json:"radius_km"`
	Description string     `json:"description"`
	Buildings   []string   `json:"buildings,omitempty"`
}

// MaxZoneRadiusKm 历史街区半径上限（不含）
const MaxZoneRadiusKm = 50.0

// 文档注释：静态历史街区目录
// 约束：进程级只读；调用方不得修改返回的切片元素。
var DefaultZones = []Zone{
	{
		Name:        "Centro Histórico de São Paulo",
		Center:      Coordinate{Latitude: -23.5505, Longitude: -46.6333},
		RadiusKm:    2,
		Description: "Região central com arquitetura colonial e eclética",
		Buildings:   []string{"Palacete dos Andradas", "Solar dos Barões", "Palacete das Artes"},
	},
	{
		Name:        "Sé e Liberdade",
		Center:      Coordinate{Latitude: -23.5489, Longitude: -46.6388},
		RadiusKm:    1.5,
		Description: "Área com influência japonesa e arquitetura tradicional",
		Buildings:   []string{"Catedral da Sé", "Edifícios da Liberdade"},
	},
	{
		Name:        "Bela Vista",
		Center:      Coordinate{Latitude: -23.5631, Longitude: -46.6544},
		RadiusKm:    1,
		Description: "Bairro com casarões modernistas e art déco",
		Buildings:   []string{"Vila Modernista", "Palacete Art Déco"},
	},
	{
		Name:        "Vila Madalena",
		Center:      Coordinate{Latitude: -23.5587, Longitude: -46.6924},
		RadiusKm:    1.5,
		Description: "Região com chácaras históricas e arquitetura eclética",
		Buildings:   []string{"Chácara das Acácias", "Vila dos Artistas"},
	},
}

// Validate：半径须在 (0, MaxZoneRadiusKm) 且圆心合法
func (z Zone) Validate() error {
	if !z.Center.Valid() {
		return fmt.Errorf("zone %q: invalid center", z.Name)
	}
	if !(z.RadiusKm > 0 && z.RadiusKm < MaxZoneRadiusKm) {
		return fmt.Errorf("zone %q: radius %.2f out of range", z.Name, z.RadiusKm)
	}
	return nil
}

// Contains：距离取整后与半径比较，边界包含
func (z Zone) Contains(c Coordinate) bool {
	if !c.Valid() {
		return false
	}
	return Distance(c, z.Center) <= z.RadiusKm
}

// ZonesContaining 返回包含该点的全部街区（保持目录顺序）
func ZonesContaining(zones []Zone, c Coordinate) []Zone {
	out := []Zone{}
	for _, z := range zones {
		if z.Contains(c) {
			out = append(out, z)
		}
	}
	return out
}

// IsInHistoricalArea：点是否落在任一默认历史街区内
func IsInHistoricalArea(lat, lon float64) bool {
	c := Coordinate{Latitude: lat, Longitude: lon}
	for _, z := range DefaultZones {
		if z.Contains(c) {
			return true
		}
	}
	return false
}

// ValidateZones 校验整个目录，返回首个错误
func ValidateZones(zones []Zone) error {
	if len(zones) == 0 {
		return errors.New("empty zone catalog")
	}
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Locatable：可参与近邻计算的对象
type Locatable interface {
	Position() Coordinate
}

// Match：近邻结果项
type Match[T Locatable] struct {
	Item       T       `json:"item"`
	DistanceKm float64 `json:"distance_km"`
}

// 文档注释：近邻筛选
// 约束：保留 distance <= maxKm 的项，按距离升序；距离相同保持原目录顺序（稳定排序）。
func FindNearby[T Locatable](userLat, userLon float64, items []T, maxKm float64) []Match[T] {
	out := make([]Match[T], 0, len(items))
	if !(Coordinate{Latitude: userLat, Longitude: userLon}).Valid() {
		return out
	}
	for _, it := range items {
		p := it.Position()
		if !p.Valid() {
			continue
		}
		d := DistanceKm(userLat, userLon, p.Latitude, p.Longitude)
		if d <= maxKm {
			out = append(out, Match[T]{Item: it, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
