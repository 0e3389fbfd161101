// 包 catalog：已知历史建筑的只读目录（导览数据 + 离线识别条目）
package catalog

import (
	"fmt"
	"strings"

	"patrio-api/internal/geo"
)

// Building：已知建筑记录；Key 非空的条目参与离线标签识别
type Building struct {
	ID              string         `json:"id"`
	Key             string         `json:"key,omitempty"`
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Aliases         []string       `json:"aliases,omitempty"`
	Characteristics []string       `json:"characteristics,omitempty"`
	Style           string         `json:"style"`
	Year            string         `json:"year"`
	Description     string         `json:"description"`
	Address         string         `json:"address"`
	Location        string         `json:"location"`
	HistoricalValue string         `json:"historicalValue"`
	CurrentUse      string         `json:"currentUse"`
	Architect       string         `json:"architect,omitempty"`
	Materials       []string       `json:"constructionMaterials,omitempty"`
	Events          []string       `json:"historicalEvents,omitempty"`
	Coordinates     geo.Coordinate `json:"coordinates"`
}

// Position 实现 geo.Locatable
func (b Building) Position() geo.Coordinate { return b.Coordinates }

func (b Building) clone() Building {
	b.Aliases = cloneStrings(b.Aliases)
	b.Characteristics = cloneStrings(b.Characteristics)
	b.Materials = cloneStrings(b.Materials)
	b.Events = cloneStrings(b.Events)
	return b
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Catalog：构造后只读，可并发访问
type Catalog struct {
	items []Building
	byID  map[string]int
	byKey map[string]int
}

// 文档注释：由建筑列表构造目录
// 约束：ID 唯一且坐标合法，否则返回错误；入参被复制，之后的外部修改不影响目录。
func New(buildings []Building) (*Catalog, error) {
	c := &Catalog{byID: map[string]int{}, byKey: map[string]int{}}
	for _, b := range buildings {
		if b.ID == "" {
			return nil, fmt.Errorf("catalog: building %q has empty id", b.Name)
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate id %q", b.ID)
		}
		if !b.Coordinates.Valid() {
			return nil, fmt.Errorf("catalog: building %q has invalid coordinates", b.ID)
		}
		c.byID[b.ID] = len(c.items)
		if b.Key != "" {
			c.byKey[b.Key] = len(c.items)
		}
		c.items = append(c.items, b.clone())
	}
	return c, nil
}

var defaultCatalog *Catalog

func init() {
	c, err := New(seed)
	if err != nil {
		panic(err)
	}
	defaultCatalog = c
}

// Default 返回内置目录
func Default() *Catalog { return defaultCatalog }

func (c *Catalog) Len() int { return len(c.items) }

// All 返回全部建筑的副本（目录顺序）
func (c *Catalog) All() []Building {
	out := make([]Building, len(c.items))
	for i, b := range c.items {
		out[i] = b.clone()
	}
	return out
}

func (c *Catalog) ByID(id string) (Building, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Building{}, false
	}
	return c.items[i].clone(), true
}

// ByKey 按离线识别键查找（如 "procopio_gomes"）
func (c *Catalog) ByKey(key string) (Building, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Building{}, false
	}
	return c.items[i].clone(), true
}

// Known 返回全部离线识别条目
func (c *Catalog) Known() []Building {
	var out []Building
	for _, b := range c.items {
		if b.Key != "" {
			out = append(out, b.clone())
		}
	}
	return out
}

// Search：名称、地址或风格包含查询串（大小写不敏感）；空查询返回全部
func (c *Catalog) Search(query string) []Building {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Building{}
	for _, b := range c.items {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.Address), q) ||
			strings.Contains(strings.ToLower(b.Style), q) {
			out = append(out, b.clone())
		}
	}
	return out
}

// Nearby 目录内距离不超过 maxKm 的建筑，按距离升序
func (c *Catalog) Nearby(lat, lon, maxKm float64) []geo.Match[Building] {
	return geo.FindNearby(lat, lon, c.All(), maxKm)
}

// MinCharacteristicHits 特征词命中下限
const MinCharacteristicHits = 2

// 文档注释：以检测标签匹配离线识别条目
// 背景：别名命中优先于特征词；特征词需至少命中 MinCharacteristicHits 个不同词，得分相同时按目录顺序。
// 约束：仅 Key 非空的条目参与；子串匹配，大小写不敏感。
func (c *Catalog) Match(labels, objects []string) (Building, bool) {
	dets := make([]string, 0, len(labels)+len(objects))
	for _, s := range append(append([]string(nil), labels...), objects...) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			dets = append(dets, s)
		}
	}
	if len(dets) == 0 {
		return Building{}, false
	}
	known := c.Known()
	for _, b := range known {
		if hits(dets, b.Aliases) > 0 {
			return b, true
		}
	}
	best, bestScore := -1, 0
	for i, b := range known {
		if n := hits(dets, b.Characteristics); n >= MinCharacteristicHits && n > bestScore {
			best, bestScore = i, n
		}
	}
	if best < 0 {
		return Building{}, false
	}
	return known[best], true
}

func hits(dets, vocab []string) int {
	n := 0
	for _, v := range vocab {
		v = strings.ToLower(v)
		for _, d := range dets {
			if strings.Contains(d, v) {
				n++
				break
			}
		}
	}
	return n
}
