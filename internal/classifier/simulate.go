package classifier

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// 文档注释：离线 / 演示模拟
// 背景：无检测输入（无网络或未配置视觉服务）时合成一个可信结果；约 40% 为建筑，其中约 60% 为历史建筑。
// 约束：随机源 panic 时转为 "Erro na análise" 哨兵结果；返回值恒为 IsOfflineAnalysis=true。
func (c *Classifier) Simulate() (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = SimulationError()
		}
		res.IsOfflineAnalysis = true
	}()

	if c.rnd.Float64() <= 0.6 {
		obj := simulatedObjects[c.rnd.Intn(len(simulatedObjects))]
		res = notBuilding(capitalize(obj))
		res.Labels = []string{obj, "object", "item"}
		res.Objects = []string{obj}
		res.Confidence = 90 + c.rnd.Intn(10)
		return res
	}
	if c.rnd.Float64() > 0.4 {
		style := simulatedStyles[c.rnd.Intn(len(simulatedStyles))]
		res = historical(style, DefaultHistoricalType, 85+c.rnd.Intn(15))
		res.EstimatedYear = c.EstimateYear(style)
		res.Labels = []string{"building", "historic", "architecture", "mansion"}
		res.Objects = []string{"house", "building", "structure"}
		return res
	}
	res = modern(defaultModernType, 80+c.rnd.Intn(15))
	res.EstimatedYear = c.between(modernYears)
	res.Labels = []string{"building", "modern", "architecture", "office"}
	res.Objects = []string{"building", "structure", "edifice"}
	return res
}

// SimulationError 模拟过程内部故障的哨兵结果
func SimulationError() Result {
	return Result{
		Labels:             []string{"error", "fallback"},
		Objects:            []string{"error"},
		ArchitecturalStyle: "Erro na análise",
		BuildingType:       "Não foi possível determinar",
		Description:        "Ocorreu um erro na análise da imagem. Tente novamente.",
		BuildingCategory:   Other,
		HistoricalValue:    ValueError,
		Recommendations:    clone(errorRecommendations),
		IsOfflineAnalysis:  true,
	}
}

// IsError 是否为模拟故障哨兵
func (r Result) IsError() bool {
	return r.HistoricalValue == ValueError && r.Confidence == 0
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// String 便于日志输出
func (r Result) String() string {
	return fmt.Sprintf("%s/%s conf=%d year=%d offline=%t [%s]",
		r.BuildingCategory, r.ArchitecturalStyle, r.Confidence, r.EstimatedYear, r.IsOfflineAnalysis,
		strings.Join(r.Labels, ","))
}
