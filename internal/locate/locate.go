// 包 locate：位置结果、反地理编码链（Nominatim → 离线快照）、IP 粗定位与演示位置兜底
package locate

import (
	"context"
	"errors"
	"strings"
)

// 兜底文案
const (
	Unknown            = "Desconhecido"
	AddressNotFound    = "Endereço não encontrado"
	AddressError       = "Erro ao obter endereço"
	AddressUnavailable = "Endereço não disponível"
)

// 来源标记
const (
	SourceDemo     = "demo"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// Result：位置结果
type Result struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Country    string  `json:"country"`
	PostalCode string  `json:"postalCode,omitempty"`
	Source     string  `json:"source"`
}

// ErrNotFound：编码器正常返回但无结果
var ErrNotFound = errors.New("locate: address not found")

// Geocoder 反地理编码器
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, lat, lon float64) (Result, error)
}

// AddressParts 地址组成
type AddressParts struct {
	Street  string
	Number  string
	City    string
	State   string
	Country string
}

// FormatAddress：按 街道、门牌、城市、州、国家 顺序以 ", " 连接非空部分；全空返回 "Endereço não disponível"
func FormatAddress(p AddressParts) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.Street, p.Number, p.City, p.State, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return AddressUnavailable
	}
	return strings.Join(parts, ", ")
}

// DemoLocation 演示 / 默认位置（圣保罗历史中心）
func DemoLocation() Result {
	return Result{
		Latitude:   -23.5505,
		Longitude:  -46.6333,
		Address:    "Rua das Flores, 123 - Centro Histórico",
		City:       "São Paulo",
		State:      "SP",
		Country:    "Brasil",
		PostalCode: "01234-567",
		Source:     SourceDemo,
	}
}

// failure：全部编码器失败时的结果，保留输入坐标
func failure(lat, lon float64, address string) Result {
	return Result{
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
		City:      Unknown,
		State:     Unknown,
		Country:   Unknown,
		Source:    SourceFallback,
	}
}

// orUnknown 空字段补 "Desconhecido"
func (r Result) orUnknown() Result {
	if r.City == "" {
		r.City = Unknown
	}
	if r.State == "" {
		r.State = Unknown
	}
	if r.Country == "" {
		r.Country = Unknown
	}
	return r
}
