package locate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"patrio-api/internal/metrics"
)

// DefaultNominatimURL 公共 Nominatim 实例
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder：OSM Nominatim /reverse（format=jsonv2）
type NominatimGeocoder struct {
	base      string
	hc        *http.Client
	userAgent string
	lang      string
}

func NewNominatim(base string, hc *http.Client) *NominatimGeocoder {
	if base == "" {
		base = DefaultNominatimURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 8 * time.Second}
	}
	return &NominatimGeocoder{base: base, hc: hc, userAgent: "patrio-api/1.0", lang: "pt-BR"}
}

func (g *NominatimGeocoder) Name() string { return "nominatim" }

type nominatimResponse struct {
	Error       string `json:"error"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road         string `json:"road"`
		Pedestrian   string `json:"pedestrian"`
		HouseNumber  string `json:"house_number"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		Country      string `json:"country"`
		Postcode     string `json:"postcode"`
	} `json:"address"`
}

// 文档注释：反地理编码
// 约束：非 2xx 返回错误；响应含 error 字段或无地址视为 ErrNotFound。
func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (Result, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("addressdetails", "1")
	q.Set("accept-language", g.lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	resp, err := g.hc.Do(req)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "error").Inc()
		return Result{}, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "error").Inc()
		return Result{}, fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("nominatim: read body: %w", err)
	}
	var nr nominatimResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "error").Inc()
		return Result{}, fmt.Errorf("nominatim: decode: %w", err)
	}
	a := nr.Address
	city := first(a.City, a.Town, a.Village, a.Municipality)
	if nr.Error != "" || (city == "" && a.Country == "" && nr.DisplayName == "") {
		metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "empty").Inc()
		return Result{}, ErrNotFound
	}
	metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "ok").Inc()
	return Result{
		Latitude:  lat,
		Longitude: lon,
		Address: FormatAddress(AddressParts{
			Street:  first(a.Road, a.Pedestrian),
			Number:  a.HouseNumber,
			City:    city,
			State:   a.State,
			Country: a.Country,
		}),
		City:       city,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.Postcode,
		Source:     g.Name(),
	}.orUnknown(), nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
