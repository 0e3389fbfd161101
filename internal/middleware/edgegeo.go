package middleware

import (
	"context"
	"net/http"
	"strconv"

	"patrio-api/internal/geo"
	"patrio-api/internal/ipgeo"
	"patrio-api/internal/logger"
)

type edgeGeoKey struct{}

// 文档注释：解析 CDN 边缘节点注入的地理头
// 背景：部署在 EdgeOne / Cloudflare 之后时，边缘节点已按客户端 IP 给出国家、城市与近似坐标，可免去本地 IP 库查询。
// 约束：坐标只在两个头都能解析且合法时采用；无任何地理头时返回 false。
func parseEdgeGeo(r *http.Request) (ipgeo.Area, bool) {
	h := r.Header
	a := ipgeo.Area{
		Country: first(h.Get("X-EO-Geo-Country"), h.Get("CF-IPCountry")),
		State:   first(h.Get("X-EO-Geo-Region"), h.Get("CF-Region")),
		City:    first(h.Get("X-EO-Geo-City"), h.Get("CF-IPCity")),
	}
	latS := first(h.Get("X-EO-Geo-Latitude"), h.Get("CF-IPLatitude"))
	lonS := first(h.Get("X-EO-Geo-Longitude"), h.Get("CF-IPLongitude"))
	if latS != "" && lonS != "" {
		lat, e1 := strconv.ParseFloat(latS, 64)
		lon, e2 := strconv.ParseFloat(lonS, 64)
		if e1 == nil && e2 == nil && (geo.Coordinate{Latitude: lat, Longitude: lon}).Valid() {
			a.Latitude, a.Longitude, a.HasCoordinates = lat, lon, true
		}
	}
	if !a.HasCoordinates && a.Country == "" && a.City == "" {
		return ipgeo.Area{}, false
	}
	a.Source = "edge"
	return a, true
}

// EdgeGeo 把边缘地理信息注入请求上下文
func EdgeGeo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, ok := parseEdgeGeo(r); ok {
			logger.L().Debug("edge_geo_inject", "country", a.Country, "city", a.City, "has_coords", a.HasCoordinates)
			r = r.WithContext(context.WithValue(r.Context(), edgeGeoKey{}, a))
		}
		next.ServeHTTP(w, r)
	})
}

// EdgeGeoFrom 读取注入的边缘地理信息
func EdgeGeoFrom(ctx context.Context) (ipgeo.Area, bool) {
	a, ok := ctx.Value(edgeGeoKey{}).(ipgeo.Area)
	return a, ok
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
