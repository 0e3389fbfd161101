package middleware

import (
	"net"
	"net/http"
	"strings"

	"patrio-api/internal/logger"
)

// forwardedHeaders 仅在直连方为可信代理时才有意义的请求头
var forwardedHeaders = []string{
	"X-Forwarded-For", "X-Real-IP",
	"X-EO-Geo-Country", "X-EO-Geo-Region", "X-EO-Geo-City", "X-EO-Geo-Latitude", "X-EO-Geo-Longitude",
	"CF-IPCountry", "CF-Region", "CF-IPCity", "CF-IPLatitude", "CF-IPLongitude",
}

// 文档注释：可信上游（CDN 回源网段、反向代理）
// 背景：X-Forwarded-For 与边缘地理头由客户端可任意伪造，只有经过己方代理时才可采信。
// 约束：以 RemoteAddr 判定直连方；单 IP 视为 /32（IPv6 为 /128）；非法项跳过并记录。
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies 解析逗号分隔的 IP/CIDR 列表
func ParseTrustedProxies(s string) TrustedProxies {
	var t TrustedProxies
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			if ip := net.ParseIP(p); ip != nil {
				bits := 128
				if ip.To4() != nil {
					ip, bits = ip.To4(), 32
				}
				t.nets = append(t.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
				continue
			}
		} else if _, n, err := net.ParseCIDR(p); err == nil {
			t.nets = append(t.nets, n)
			continue
		}
		logger.L().Warn("trusted_proxy_invalid", "entry", p)
	}
	return t
}

func (t TrustedProxies) Empty() bool { return len(t.nets) == 0 }

// Trusts 判断直连地址（host:port 或裸 IP）是否可信
func (t TrustedProxies) Trusts(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range t.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// StripUntrusted 直连方不可信时删除转发与边缘地理头，下游的 ClientIP 与 EdgeGeo 只会看到 RemoteAddr
func StripUntrusted(t TrustedProxies, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.Trusts(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}
		var r2 *http.Request
		for _, h := range forwardedHeaders {
			if r.Header.Get(h) == "" {
				continue
			}
			if r2 == nil {
				r2 = r.Clone(r.Context())
			}
			r2.Header.Del(h)
		}
		if r2 != nil {
			logger.L().Debug("forwarded_headers_stripped", "remote", r.RemoteAddr)
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}
