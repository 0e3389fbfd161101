// 包 osm：通过 Overpass API 查询用户周边的 OpenStreetMap 历史遗迹
package osm

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/serjvanilla/go-overpass"

	"patrio-api/internal/geo"
	"patrio-api/internal/logger"
)

// DefaultEndpoint 公共 Overpass 实例
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// HistoricSite：带 historic / heritage 标签的 OSM 要素
type HistoricSite struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Historic    string         `json:"historic,omitempty"`
	Heritage    string         `json:"heritage,omitempty"`
	Coordinates geo.Coordinate `json:"coordinates"`
	DistanceKm  float64        `json:"distance_km"`
}

// Client：Overpass 查询封装
type Client struct {
	client  overpass.Client
	timeout time.Duration
	limit   int
}

// 文档注释：构造客户端
// 约束：endpoint 为空使用 DefaultEndpoint；hc 为空时按 timeout 新建；并发上限 2。
func NewClient(endpoint string, timeout time.Duration, hc *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		client:  overpass.NewWithSettings(endpoint, 2, hc),
		timeout: timeout,
		limit:   20,
	}
}

func historicQuery(lat, lon float64, radiusM int) string {
	around := fmt.Sprintf("(around:%d,%.6f,%.6f)", radiusM, lat, lon)
	return fmt.Sprintf(`
		[out:json][timeout:25];
		(
			node["historic"]%[1]s;
			way["historic"]%[1]s;
			node["heritage"]%[1]s;
			way["heritage"]%[1]s;
		);
		out body;
		>;
		out skel qt;
	`, around)
}

// 文档注释：查询半径内的历史遗迹
// 背景：go-overpass 不接收 context，这里在独立 goroutine 中执行并在 ctx 结束时提前返回。
// 约束：结果按距离升序、同距离按 ID；最多返回 20 条；way 坐标取节点均值。
func (c *Client) HistoricSites(ctx context.Context, lat, lon, radiusKm float64) ([]HistoricSite, error) {
	if !(geo.Coordinate{Latitude: lat, Longitude: lon}).Valid() {
		return nil, fmt.Errorf("osm: invalid coordinate %.6f,%.6f", lat, lon)
	}
	if radiusKm <= 0 {
		radiusKm = 1
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type out struct {
		res overpass.Result
		err error
	}
	ch := make(chan out, 1)
	q := historicQuery(lat, lon, int(radiusKm*1000))
	go func() {
		res, err := c.client.Query(q)
		ch <- out{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("osm: overpass query: %w", ctx.Err())
	case o := <-ch:
		if o.err != nil {
			logger.L().Warn("overpass_query_error", "err", o.err)
			return nil, fmt.Errorf("osm: overpass query: %w", o.err)
		}
		return c.collect(&o.res, lat, lon), nil
	}
}

func (c *Client) collect(res *overpass.Result, lat, lon float64) []HistoricSite {
	sites := []HistoricSite{}
	for _, n := range res.Nodes {
		if n == nil || !tagged(n.Tags) {
			continue
		}
		sites = append(sites, newSite(n.ID, string(overpass.ElementTypeNode), n.Tags, n.Lat, n.Lon, lat, lon))
	}
	for _, w := range res.Ways {
		if w == nil || !tagged(w.Tags) || len(w.Nodes) == 0 {
			continue
		}
		var sLat, sLon float64
		cnt := 0
		for _, n := range w.Nodes {
			if n == nil {
				continue
			}
			sLat += n.Lat
			sLon += n.Lon
			cnt++
		}
		if cnt == 0 {
			continue
		}
		sites = append(sites, newSite(w.ID, string(overpass.ElementTypeWay), w.Tags, sLat/float64(cnt), sLon/float64(cnt), lat, lon))
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].DistanceKm != sites[j].DistanceKm {
			return sites[i].DistanceKm < sites[j].DistanceKm
		}
		return sites[i].ID < sites[j].ID
	})
	if len(sites) > c.limit {
		sites = sites[:c.limit]
	}
	return sites
}

func tagged(tags map[string]string) bool {
	return tags["historic"] != "" || tags["heritage"] != ""
}

func newSite(id int64, typ string, tags map[string]string, lat, lon, userLat, userLon float64) HistoricSite {
	name := tags["name"]
	if name == "" {
		name = tags["historic"]
	}
	return HistoricSite{
		ID:          id,
		Type:        typ,
		Name:        name,
		Historic:    tags["historic"],
		Heritage:    tags["heritage"],
		Coordinates: geo.Coordinate{Latitude: lat, Longitude: lon},
		DistanceKm:  geo.DistanceKm(userLat, userLon, lat, lon),
	}
}
