package classifier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand 按顺序回放预设值；耗尽后返回 0
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

type panicRand struct{}

func (panicRand) Intn(int) int     { panic("entropy exhausted") }
func (panicRand) Float64() float64 { panic("entropy exhausted") }

func seeded() *Classifier {
	return New(WithRand(rand.New(rand.NewSource(42))))
}

func TestClassify_Historical(t *testing.T) {
	c := seeded()
	for i := 0; i < 50; i++ {
		r := c.Classify([]string{"colonial", "historic", "mansion"}, []string{"house"})
		require.Equal(t, Historical, r.BuildingCategory)
		assert.True(t, r.IsHistoricalBuilding)
		assert.Equal(t, "Alto", r.HistoricalValue)
		assert.Equal(t, "Colonial", r.ArchitecturalStyle)
		assert.Equal(t, "Mansão", r.BuildingType)
		assert.Equal(t, 95, r.Confidence)
		assert.GreaterOrEqual(t, r.EstimatedYear, 1500)
		assert.LessOrEqual(t, r.EstimatedYear, 1800)
		assert.Len(t, r.Recommendations, 3)
		assert.Contains(t, r.Description, "Estilo arquitetônico: Colonial")
		assert.False(t, r.IsOfflineAnalysis)
	}
}

func TestClassify_HistoricalConfidenceScales(t *testing.T) {
	c := seeded()
	r := c.Classify([]string{"vintage building"}, []string{})
	require.Equal(t, Historical, r.BuildingCategory)
	assert.Equal(t, 90, r.Confidence)
	assert.Equal(t, DefaultHistoricalStyle, r.ArchitecturalStyle)
	assert.Equal(t, "Edifício", r.BuildingType)
	lo, hi := YearRange(DefaultHistoricalStyle)
	assert.GreaterOrEqual(t, r.EstimatedYear, lo)
	assert.LessOrEqual(t, r.EstimatedYear, hi)
}

func TestClassify_StylePriorityFollowsDetectionOrder(t *testing.T) {
	c := seeded()
	r := c.Classify([]string{"Baroque Palace", "colonial"}, []string{"castle"})
	assert.Equal(t, "Barroco", r.ArchitecturalStyle)
	assert.Equal(t, "Palácio", r.BuildingType)
}

func TestClassify_Modern(t *testing.T) {
	c := seeded()
	r := c.Classify([]string{"modern", "glass", "steel"}, []string{"skyscraper", "office"})
	require.Equal(t, Modern, r.BuildingCategory)
	assert.False(t, r.IsHistoricalBuilding)
	assert.Equal(t, "Baixo", r.HistoricalValue)
	assert.Equal(t, "Moderno/Contemporâneo", r.ArchitecturalStyle)
	assert.Equal(t, "Arranha-céu", r.BuildingType)
	assert.Equal(t, 90, r.Confidence)
	assert.GreaterOrEqual(t, r.EstimatedYear, 2000)
	assert.LessOrEqual(t, r.EstimatedYear, 2023)
}

func TestClassify_ModernSubtypes(t *testing.T) {
	tests := []struct {
		labels []string
		want   string
	}{
		{[]string{"modern", "office building"}, "Edifício Comercial"},
		{[]string{"contemporary", "apartment building"}, "Edifício Residencial"},
		{[]string{"industrial building"}, "Edifício Industrial"},
		{[]string{"glass building"}, "Edifício Moderno"},
		{[]string{"apartment building", "high-rise"}, "Arranha-céu"},
	}
	c := seeded()
	for _, tt := range tests {
		r := c.Classify(tt.labels, []string{})
		require.Equal(t, Modern, r.BuildingCategory, tt.labels)
		assert.Equal(t, tt.want, r.BuildingType, tt.labels)
	}
}

func TestClassify_TieIsOther(t *testing.T) {
	c := New(WithRand(&scriptedRand{ints: []int{49}}))
	r := c.Classify([]string{"building"}, []string{"structure"})
	assert.Equal(t, Other, r.BuildingCategory)
	assert.Equal(t, 60, r.Confidence)
	assert.Equal(t, "Indefinido", r.HistoricalValue)
	assert.Equal(t, "Edifício genérico", r.BuildingType)
	assert.Equal(t, 1999, r.EstimatedYear)

	// 历史与现代得分相同
	r = c.Classify([]string{"historic building", "modern"}, []string{})
	assert.Equal(t, Other, r.BuildingCategory)
	assert.GreaterOrEqual(t, r.EstimatedYear, 1950)
	assert.LessOrEqual(t, r.EstimatedYear, 1999)
}

func TestClassify_NotBuilding(t *testing.T) {
	c := seeded()
	r := c.Classify([]string{"toy", "stuffed", "plush"}, []string{"doll"})
	assert.Equal(t, Other, r.BuildingCategory)
	assert.Equal(t, "Não aplicável", r.ArchitecturalStyle)
	assert.Equal(t, TypeNotBuilding, r.BuildingType)
	assert.True(t, r.IsObject())
	assert.False(t, r.IsHistoricalBuilding)
	assert.Equal(t, "Não aplicável", r.HistoricalValue)
	assert.Equal(t, 0, r.EstimatedYear)
	assert.Equal(t, 90, r.Confidence)
	assert.Contains(t, r.Description, "Pelúcia/Brinquedo detectado")
}

func TestClassify_NotBuildingObjectNames(t *testing.T) {
	tests := map[string]string{
		"vehicle":   "Veículo",
		"flower":    "Planta/Árvore",
		"people":    "Pessoa",
		"dog":       "Animal",
		"meal":      "Comida",
		"chair":     "Móvel",
		"shirt":     "Roupa",
		"phone":     "Eletrônico",
		"newspaper": "Livro/Revista",
		"sky":       "Objeto",
	}
	c := seeded()
	for token, want := range tests {
		r := c.Classify([]string{token}, []string{})
		require.Equal(t, Other, r.BuildingCategory, token)
		require.True(t, r.IsObject(), token)
		assert.Contains(t, r.Description, want+" detectado", token)
	}
}

func TestClassify_EmptyInputIsNotBuilding(t *testing.T) {
	r := seeded().Classify([]string{}, []string{})
	assert.Equal(t, Other, r.BuildingCategory)
	assert.Equal(t, TypeNotBuilding, r.BuildingType)
	assert.Contains(t, r.Description, "Objeto detectado")
}

func TestClassify_NilInputs(t *testing.T) {
	c := seeded()
	for _, r := range []Result{c.Classify(nil, nil), c.Classify(nil, []string{"house"}), c.Classify([]string{"house"}, nil)} {
		assert.Equal(t, 0, r.Confidence)
		assert.Equal(t, Other, r.BuildingCategory)
		assert.Equal(t, "Não detectado", r.ArchitecturalStyle)
		assert.Equal(t, "Não aplicável", r.HistoricalValue)
		assert.Equal(t, []string{"Tente novamente com uma imagem mais clara"}, r.Recommendations)
	}
}

func TestClassify_NormalizesCase(t *testing.T) {
	r := seeded().Classify([]string{"  VICTORIAN  ", "House"}, []string{""})
	assert.Equal(t, "Vitoriano", r.ArchitecturalStyle)
	assert.Equal(t, []string{"victorian", "house"}, r.Labels)
	assert.Empty(t, r.Objects)
}

func TestClassify_Invariants(t *testing.T) {
	c := seeded()
	inputs := [][2][]string{
		{{"toy"}, {}},
		{{"colonial", "house"}, {}},
		{{"modern", "tower"}, {}},
		{{"building"}, {}},
		{{}, {}},
	}
	for _, in := range inputs {
		r := c.Classify(in[0], in[1])
		assert.GreaterOrEqual(t, r.Confidence, 0)
		assert.LessOrEqual(t, r.Confidence, 100)
		assert.NotEqual(t, NotBuilding, r.BuildingCategory)
		if r.IsObject() {
			assert.Equal(t, 0, r.EstimatedYear)
			assert.Equal(t, ValueNotApplicable, r.HistoricalValue)
		}
	}
}

func TestRecommendationsNotShared(t *testing.T) {
	c := seeded()
	a := c.Classify([]string{"colonial house"}, []string{})
	a.Recommendations[0] = "mutated"
	b := c.Classify([]string{"colonial house"}, []string{})
	assert.Equal(t, "Documente a fachada e detalhes arquitetônicos", b.Recommendations[0])
}

func TestEstimateYear(t *testing.T) {
	c := New(WithRand(&scriptedRand{ints: []int{0, 1000}}))
	assert.Equal(t, 1837, c.EstimateYear("Vitoriano"))
	// 1000 % 65 = 25
	assert.Equal(t, 1862, c.EstimateYear("Vitoriano"))

	lo, hi := YearRange("Desconhecido")
	assert.Equal(t, 1800, lo)
	assert.Equal(t, 1950, hi)
	lo, hi = YearRange("Art Déco")
	assert.Equal(t, 1920, lo)
	assert.Equal(t, 1940, hi)
}

func TestSimulate_NotBuilding(t *testing.T) {
	c := New(WithRand(&scriptedRand{floats: []float64{0.1}, ints: []int{0, 5}}))
	r := c.Simulate()
	assert.True(t, r.IsOfflineAnalysis)
	assert.Equal(t, Other, r.BuildingCategory)
	assert.True(t, r.IsObject())
	assert.Equal(t, ValueNotApplicable, r.HistoricalValue)
	assert.Equal(t, 0, r.EstimatedYear)
	assert.Equal(t, 95, r.Confidence)
	assert.Equal(t, []string{"pelúcia"}, r.Objects)
	assert.Contains(t, r.Description, "Pelúcia detectado")
}

func TestSimulate_Historical(t *testing.T) {
	c := New(WithRand(&scriptedRand{floats: []float64{0.9, 0.9}, ints: []int{2, 14, 0}}))
	r := c.Simulate()
	assert.True(t, r.IsOfflineAnalysis)
	assert.Equal(t, Historical, r.BuildingCategory)
	assert.Equal(t, "Barroco", r.ArchitecturalStyle)
	assert.Equal(t, DefaultHistoricalType, r.BuildingType)
	assert.Equal(t, 99, r.Confidence)
	assert.Equal(t, 1600, r.EstimatedYear)
}

func TestSimulate_Modern(t *testing.T) {
	c := New(WithRand(&scriptedRand{floats: []float64{0.9, 0.2}, ints: []int{3, 23}}))
	r := c.Simulate()
	assert.Equal(t, Modern, r.BuildingCategory)
	assert.Equal(t, "Edifício Moderno", r.BuildingType)
	assert.Equal(t, 83, r.Confidence)
	assert.Equal(t, 2023, r.EstimatedYear)
	assert.True(t, r.IsOfflineAnalysis)
}

func TestSimulate_RandomSourcePanics(t *testing.T) {
	c := New(WithRand(panicRand{}))
	var r Result
	require.NotPanics(t, func() { r = c.Simulate() })
	assert.True(t, r.IsError())
	assert.Equal(t, Other, r.BuildingCategory)
	assert.Equal(t, "Erro na análise", r.ArchitecturalStyle)
	assert.Equal(t, 0, r.Confidence)
	assert.Equal(t, "Erro", r.HistoricalValue)
	assert.True(t, r.IsOfflineAnalysis)
	assert.Len(t, r.Recommendations, 3)
}

func TestSimulate_AlwaysWellFormed(t *testing.T) {
	c := seeded()
	seen := map[Category]bool{}
	objects := 0
	for i := 0; i < 500; i++ {
		r := c.Simulate()
		seen[r.BuildingCategory] = true
		assert.NotEqual(t, NotBuilding, r.BuildingCategory)
		if r.IsObject() {
			objects++
			assert.Equal(t, Other, r.BuildingCategory)
			assert.Equal(t, 0, r.EstimatedYear)
		}
		assert.True(t, r.IsOfflineAnalysis)
		assert.GreaterOrEqual(t, r.Confidence, 80)
		assert.LessOrEqual(t, r.Confidence, 99)
		if r.BuildingCategory == Historical {
			lo, hi := YearRange(r.ArchitecturalStyle)
			assert.GreaterOrEqual(t, r.EstimatedYear, lo)
			assert.LessOrEqual(t, r.EstimatedYear, hi)
		}
	}
	assert.True(t, seen[Historical])
	assert.True(t, seen[Modern])
	assert.True(t, seen[Other])
	assert.Positive(t, objects)
}

func TestClassify_ReferenceDetections(t *testing.T) {
	c := seeded()

	r := c.Classify([]string{"colonial", "historic", "mansion"}, []string{"house"})
	assert.Equal(t, Historical, r.BuildingCategory)
	assert.True(t, r.IsHistoricalBuilding)
	assert.Equal(t, "Alto", r.HistoricalValue)
	assert.GreaterOrEqual(t, r.Confidence, 85)
	assert.LessOrEqual(t, r.Confidence, 95)
	assert.Equal(t, "Colonial", r.ArchitecturalStyle)
	assert.GreaterOrEqual(t, r.EstimatedYear, 1500)
	assert.LessOrEqual(t, r.EstimatedYear, 1800)

	r = c.Classify([]string{"modern", "glass", "steel"}, []string{"skyscraper", "office"})
	assert.Equal(t, Modern, r.BuildingCategory)
	assert.False(t, r.IsHistoricalBuilding)
	assert.Equal(t, "Baixo", r.HistoricalValue)

	r = c.Classify([]string{"toy", "stuffed", "plush"}, []string{"doll"})
	assert.Equal(t, Category("other"), r.BuildingCategory)
	assert.False(t, r.IsHistoricalBuilding)
	assert.Equal(t, "Não aplicável", r.HistoricalValue)
	assert.Equal(t, 0, r.EstimatedYear)
}
