// 包 ipgeo：按客户端 IP 粗定位（GeoIP2 City 提供坐标，ip2region 提供名称兜底）
package ipgeo

import (
	"net"
	"strings"
	"time"

	"github.com/lionsoul2014/ip2region/binding/golang/xdb"
	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"

	"patrio-api/internal/logger"
)

// Area：IP 定位结果；HasCoordinates 为 false 时只有名称
type Area struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	HasCoordinates bool    `json:"has_coordinates"`
	Country        string  `json:"country"`
	State          string  `json:"state"`
	City           string  `json:"city"`
	Source         string  `json:"source"`
}

// cityReader 抽象 *geoip2.Reader，便于测试替换
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Metadata() maxminddb.Metadata
	Close() error
}

type regionSearcher interface {
	SearchByStr(ip string) (string, error)
}

// Locator：两级 IP 定位；两个来源都可缺省
type Locator struct {
	city   cityReader
	region regionSearcher
	lang   string
}

// 文档注释：按文件路径打开数据库
// 约束：路径为空的来源被跳过；任一文件打开失败返回错误并关闭已打开的来源。
func Open(geoipPath, ip2regionPath string) (*Locator, error) {
	l := &Locator{lang: "pt-BR"}
	if geoipPath != "" {
		r, err := geoip2.Open(geoipPath)
		if err != nil {
			return nil, err
		}
		l.city = r
		md := r.Metadata()
		logger.L().Info("geoip_open_ok", "type", md.DatabaseType, "build", time.Unix(int64(md.BuildEpoch), 0).UTC().Format(time.DateOnly))
	}
	if ip2regionPath != "" {
		s, err := xdb.NewWithFileOnly(xdb.IPv4, ip2regionPath)
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		l.region = s
		logger.L().Info("ip2region_open_ok", "path", ip2regionPath)
	}
	return l, nil
}

// Enabled 至少一个来源可用
func (l *Locator) Enabled() bool { return l != nil && (l.city != nil || l.region != nil) }

func (l *Locator) Close() error {
	if l == nil || l.city == nil {
		return nil
	}
	return l.city.Close()
}

// Info 返回 GeoIP 数据库元信息；未配置时 ok=false
func (l *Locator) Info() (dbType string, built time.Time, ok bool) {
	if l == nil || l.city == nil {
		return "", time.Time{}, false
	}
	md := l.city.Metadata()
	return md.DatabaseType, time.Unix(int64(md.BuildEpoch), 0).UTC(), true
}

// 文档注释：IP 定位
// 约束：私网、回环、非法地址直接返回 false；GeoIP2 命中且坐标非零时优先，否则 ip2region 名称。
func (l *Locator) Lookup(ipStr string) (Area, bool) {
	if !l.Enabled() {
		return Area{}, false
	}
	ip := net.ParseIP(strings.TrimSpace(ipStr))
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return Area{}, false
	}
	if l.city != nil {
		if rec, err := l.city.City(ip); err == nil && rec != nil {
			if a, ok := l.fromCity(rec); ok {
				return a, true
			}
		} else if err != nil {
			logger.L().Debug("geoip_lookup_error", "ip", ipStr, "err", err)
		}
	}
	if l.region != nil && ip.To4() != nil {
		if s, err := l.region.SearchByStr(ip.String()); err == nil && s != "" {
			if a := parseRegion(s); a.Country != "" || a.City != "" {
				return a, true
			}
		}
	}
	return Area{}, false
}

func (l *Locator) fromCity(rec *geoip2.City) (Area, bool) {
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return Area{}, false
	}
	a := Area{
		Latitude:       rec.Location.Latitude,
		Longitude:      rec.Location.Longitude,
		HasCoordinates: true,
		Country:        name(rec.Country.Names, l.lang),
		City:           name(rec.City.Names, l.lang),
		Source:         "geoip2",
	}
	if len(rec.Subdivisions) > 0 {
		a.State = rec.Subdivisions[0].IsoCode
		if a.State == "" {
			a.State = name(rec.Subdivisions[0].Names, l.lang)
		}
	}
	return a, true
}

func name(names map[string]string, lang string) string {
	if v := names[lang]; v != "" {
		return v
	}
	return names["en"]
}

// parseRegion：ip2region 记录 国家|区域|省份|城市|ISP，"0" 表示缺失
func parseRegion(s string) Area {
	parts := strings.Split(s, "|")
	get := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		v := strings.TrimSpace(parts[i])
		if v == "0" || strings.EqualFold(v, "unknown") {
			return ""
		}
		return v
	}
	return Area{Country: get(0), State: get(2), City: get(3), Source: "ip2region"}
}
