package classifier

// pair：匹配词 -> 输出值；切片顺序即优先级，首个命中生效
type pair struct {
	token string
	value string
}

// yearRange：闭区间年份
type yearRange struct {
	lo, hi int
}

// 建筑指示词（子串匹配）
// 约束：在原始词表基础上补充高层/办公/宗教建筑词，保证 "skyscraper"、"office" 之类的检测被识别为建筑。
var buildingIndicators = []string{
	"building", "house", "mansion", "palace", "castle", "villa", "chateau",
	"manor", "estate", "residence", "dwelling", "structure", "architecture",
	"edifice", "construction", "property", "real estate",
	"skyscraper", "high-rise", "tower", "office", "apartment", "church",
	"cathedral", "facade", "tenement",
}

var historicalIndicators = []string{
	"colonial", "victorian", "baroque", "neoclassical", "art deco", "art nouveau",
	"gothic", "romanesque", "renaissance", "medieval", "ancient", "historic",
	"antique", "vintage", "traditional", "classical", "heritage", "landmark",
}

var modernIndicators = []string{
	"modern", "contemporary", "glass", "steel", "concrete", "skyscraper",
	"high-rise", "office building", "apartment building", "commercial building",
	"industrial", "minimalist", "futuristic", "sustainable", "green building",
}

// 风格映射：按检测顺序逐个扫描，每个检测内按本表顺序
var styleTable = []pair{
	{"colonial", "Colonial"},
	{"victorian", "Vitoriano"},
	{"baroque", "Barroco"},
	{"neoclassical", "Neoclássico"},
	{"art deco", "Art Déco"},
	{"art nouveau", "Art Nouveau"},
	{"gothic", "Gótico"},
	{"romanesque", "Românico"},
	{"renaissance", "Renascença"},
	{"medieval", "Medieval"},
	{"ancient", "Antigo"},
	{"historic", "Histórico"},
	{"traditional", "Tradicional"},
	{"classical", "Clássico"},
}

// DefaultHistoricalStyle 无具体风格词时的历史风格
const DefaultHistoricalStyle = "Histórico Tradicional"

var historicalTypeTable = []pair{
	{"mansion", "Mansão"},
	{"palace", "Palácio"},
	{"castle", "Castelo"},
	{"villa", "Vila"},
	{"chateau", "Château"},
	{"manor", "Solar"},
	{"estate", "Propriedade"},
	{"residence", "Residência"},
	{"house", "Casa"},
	{"building", "Edifício"},
}

// DefaultHistoricalType 历史分支的默认建筑类型
const DefaultHistoricalType = "Casarão Histórico"

var modernTypeTable = []pair{
	{"skyscraper", "Arranha-céu"},
	{"high-rise", "Arranha-céu"},
	{"office", "Edifício Comercial"},
	{"apartment", "Edifício Residencial"},
	{"industrial", "Edifício Industrial"},
}

const defaultModernType = "Edifício Moderno"

// 非建筑类别：每组任一词命中即返回该组名称
var objectCategories = []struct {
	name   string
	tokens []string
}{
	{"Pelúcia/Brinquedo", []string{"toy", "stuffed", "plush", "doll"}},
	{"Veículo", []string{"car", "vehicle", "automobile"}},
	{"Planta/Árvore", []string{"tree", "plant", "flower"}},
	{"Pessoa", []string{"person", "human", "people"}},
	{"Animal", []string{"animal", "pet", "dog", "cat"}},
	{"Comida", []string{"food", "meal", "dish"}},
	{"Móvel", []string{"furniture", "chair", "table"}},
	{"Roupa", []string{"clothing", "shirt", "dress"}},
	{"Eletrônico", []string{"electronics", "phone", "computer"}},
	{"Livro/Revista", []string{"book", "magazine", "newspaper"}},
}

const defaultObject = "Objeto"

// 风格年份区间（闭区间）；未列出的风格使用 defaultYears
var styleYears = map[string]yearRange{
	"Medieval":             {1000, 1400},
	"Renascença":           {1400, 1600},
	"Barroco":              {1600, 1750},
	"Neoclássico":          {1750, 1850},
	"Vitoriano":            {1837, 1901},
	"Art Nouveau":          {1890, 1910},
	"Art Déco":             {1920, 1940},
	"Colonial":             {1500, 1800},
	DefaultHistoricalStyle: {1800, 1950},
}

var (
	defaultYears = yearRange{1800, 1950}
	modernYears  = yearRange{2000, 2023}
	genericYears = yearRange{1950, 1999}
)

// 各分支固定建议
var (
	historicalRecommendations = []string{
		"Documente a fachada e detalhes arquitetônicos",
		"Verifique se está listado como patrimônio histórico",
		"Considere restauração preservando características originais",
	}
	modernRecommendations = []string{
		"Este edifício não possui valor histórico significativo",
		"Foque em casarões com características arquitetônicas tradicionais",
		"Procure por edifícios em áreas históricas da cidade",
	}
	genericRecommendations = []string{
		"Aproxime-se para melhor análise dos detalhes arquitetônicos",
		"Procure por elementos característicos de casarões históricos",
		"Verifique a localização em áreas históricas",
	}
	notBuildingRecommendations = []string{
		"Aponte a câmera para um casarão ou edifício histórico",
		"Procure por construções antigas com arquitetura tradicional",
		"Visite áreas históricas da cidade para encontrar casarões",
	}
	errorRecommendations = []string{
		"Reinicie o app e tente novamente",
		"Verifique sua conexão com a internet",
		"Tente com uma imagem diferente",
	}
)

// 离线模拟用词表
var (
	simulatedStyles  = []string{"Colonial", "Vitoriano", "Barroco", "Neoclássico", "Art Déco"}
	simulatedObjects = []string{"pelúcia", "carro", "árvore", "pessoa", "animal", "comida", "móvel", "roupa", "eletrônico", "livro"}
)
