// 包 classifier：基于检测标签的建筑分类（历史 / 现代 / 其他 / 非建筑）与离线模拟
package classifier

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Category 建筑类别
type Category string

// 约束：非建筑检测归入 Other，以 BuildingType == TypeNotBuilding 区分；NotBuilding 仅保留为合法取值，分类器不产出。
const (
	Historical  Category = "historical"
	Modern      Category = "modern"
	Other       Category = "other"
	NotBuilding Category = "not_building"
)

// TypeNotBuilding 非建筑检测的 BuildingType
const TypeNotBuilding = "Não é um edifício"

// 历史价值等级
const (
	ValueHigh          = "Alto"
	ValueMedium        = "Médio"
	ValueLow           = "Baixo"
	ValueNotApplicable = "Não aplicável"
	ValueUndefined     = "Indefinido"
	ValueError         = "Erro"
)

// Result：一次分类的不可变结果
type Result struct {
	Labels               []string `json:"labels"`
	Objects              []string `json:"objects"`
	ArchitecturalStyle   string   `json:"architecturalStyle"`
	BuildingType         string   `json:"buildingType"`
	EstimatedYear        int      `json:"estimatedYear"`
	Confidence           int      `json:"confidence"`
	Description          string   `json:"description"`
	IsHistoricalBuilding bool     `json:"isHistoricalBuilding"`
	BuildingCategory     Category `json:"buildingCategory"`
	HistoricalValue      string   `json:"historicalValue"`
	Recommendations      []string `json:"recommendations"`
	IsOfflineAnalysis    bool     `json:"isOfflineAnalysis"`
}

// Rand 随机源；*rand.Rand 满足该接口
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// lockedRand：*rand.Rand 非并发安全，HTTP 场景下需加锁
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewSeededRand 返回可并发使用的随机源；seed 为 0 时取当前时间
func NewSeededRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// Classifier：词表分类器；除随机源外无状态
type Classifier struct {
	rnd Rand
}

// Option 构造选项
type Option func(*Classifier)

// WithRand 注入随机源（测试用固定序列）
func WithRand(r Rand) Option {
	return func(c *Classifier) {
		if r != nil {
			c.rnd = r
		}
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, o := range opts {
		o(c)
	}
	if c.rnd == nil {
		c.rnd = NewSeededRand(0)
	}
	return c
}

// 文档注释：分类入口
// 背景：检测集合来自远端视觉服务或离线模拟；子串匹配，非整词匹配。
// 约束：labels 或 objects 为 nil 时返回零置信度的 "未检测" 结果，不 panic；结果不含离线标记，由调用方设置。
func (c *Classifier) Classify(labels, objects []string) Result {
	if labels == nil || objects == nil {
		return Undetected()
	}
	nl := normalize(labels)
	no := normalize(objects)
	all := make([]string, 0, len(nl)+len(no))
	all = append(all, nl...)
	all = append(all, no...)

	var r Result
	if !anyContains(all, buildingIndicators) {
		r = notBuilding(identifyObject(all))
	} else {
		h := countMatches(all, historicalIndicators)
		m := countMatches(all, modernIndicators)
		switch {
		case h > m && h > 0:
			style := firstMatch(all, styleTable, DefaultHistoricalStyle)
			r = historical(style, firstMatch(all, historicalTypeTable, DefaultHistoricalType), min(85+h*5, 95))
			r.EstimatedYear = c.EstimateYear(style)
		case m > h && m > 0:
			r = modern(byPriority(all, modernTypeTable, defaultModernType), min(80+m*5, 90))
			r.EstimatedYear = c.between(modernYears)
		default:
			r = Result{
				ArchitecturalStyle: "Não especificado",
				BuildingType:       "Edifício genérico",
				EstimatedYear:      c.between(genericYears),
				Confidence:         60,
				Description:        "🏗️ Edifício detectado, mas não foi possível determinar se é histórico ou moderno.",
				BuildingCategory:   Other,
				HistoricalValue:    ValueUndefined,
				Recommendations:    clone(genericRecommendations),
			}
		}
	}
	r.Labels = nl
	r.Objects = no
	return r
}

// EstimateYear 在风格对应的闭区间内均匀取年份；未知风格使用 1800–1950
func (c *Classifier) EstimateYear(style string) int {
	return c.between(rangeOf(style))
}

// YearRange 返回风格年份闭区间
func YearRange(style string) (lo, hi int) {
	yr := rangeOf(style)
	return yr.lo, yr.hi
}

func rangeOf(style string) yearRange {
	if yr, ok := styleYears[style]; ok {
		return yr
	}
	return defaultYears
}

func (c *Classifier) between(yr yearRange) int {
	return yr.lo + c.rnd.Intn(yr.hi-yr.lo+1)
}

// Undetected 输入非法时的兜底结果
func Undetected() Result {
	return Result{
		Labels:             []string{},
		Objects:            []string{},
		ArchitecturalStyle: "Não detectado",
		BuildingType:       "Não detectado",
		Description:        "Não foi possível analisar a imagem",
		BuildingCategory:   Other,
		HistoricalValue:    ValueNotApplicable,
		Recommendations:    []string{"Tente novamente com uma imagem mais clara"},
	}
}

// IsObject 检测结果为非建筑物体
func (r Result) IsObject() bool { return r.BuildingType == TypeNotBuilding }

func historical(style, buildingType string, confidence int) Result {
	return Result{
		ArchitecturalStyle:   style,
		BuildingType:         buildingType,
		Confidence:           confidence,
		Description:          fmt.Sprintf("🏛️ Casarão histórico detectado! Estilo arquitetônico: %s. Este edifício apresenta características típicas de construções históricas.", style),
		IsHistoricalBuilding: true,
		BuildingCategory:     Historical,
		HistoricalValue:      ValueHigh,
		Recommendations:      clone(historicalRecommendations),
	}
}

func modern(buildingType string, confidence int) Result {
	return Result{
		ArchitecturalStyle: "Moderno/Contemporâneo",
		BuildingType:       buildingType,
		Confidence:         confidence,
		Description:        "🏢 Edifício moderno detectado. Este não é um casarão histórico, mas sim uma construção contemporânea.",
		BuildingCategory:   Modern,
		HistoricalValue:    ValueLow,
		Recommendations:    clone(modernRecommendations),
	}
}

func notBuilding(object string) Result {
	return Result{
		ArchitecturalStyle: ValueNotApplicable,
		BuildingType:       TypeNotBuilding,
		Confidence:         90,
		Description:        fmt.Sprintf("📦 %s detectado. Este não é um casarão histórico.", object),
		BuildingCategory:   Other,
		HistoricalValue:    ValueNotApplicable,
		Recommendations:    clone(notBuildingRecommendations),
	}
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func anyContains(detections, vocab []string) bool {
	for _, v := range vocab {
		for _, d := range detections {
			if strings.Contains(d, v) {
				return true
			}
		}
	}
	return false
}

// countMatches：命中的不同词表项个数
func countMatches(detections, vocab []string) int {
	n := 0
	for _, v := range vocab {
		for _, d := range detections {
			if strings.Contains(d, v) {
				n++
				break
			}
		}
	}
	return n
}

func firstMatch(detections []string, table []pair, def string) string {
	for _, d := range detections {
		for _, p := range table {
			if strings.Contains(d, p.token) {
				return p.value
			}
		}
	}
	return def
}

// byPriority：按表顺序优先，任一检测命中即返回
func byPriority(detections []string, table []pair, def string) string {
	for _, p := range table {
		for _, d := range detections {
			if strings.Contains(d, p.token) {
				return p.value
			}
		}
	}
	return def
}

func identifyObject(detections []string) string {
	for _, cat := range objectCategories {
		if anyContains(detections, cat.tokens) {
			return cat.name
		}
	}
	return defaultObject
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
