package revgeo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"patrio-api/internal/geo"
	"patrio-api/internal/logger"
)

// 文档注释：从数据目录加载边界与质心快照
// 背景：边界取 boundaries.json（数组）或目录下的 *.geojson（FeatureCollection / Feature），质心取 city_centroids.json。
// 约束：dir 为空或无质心文件时使用 DefaultCentroids；单个文件解析失败只记录日志并跳过。
func LoadSnapshot(dir string) (*Snapshot, error) {
	snap := &Snapshot{BuiltAt: time.Now()}
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("revgeo: data dir: %w", err)
		}
		cents, err := loadCentroids(filepath.Join(dir, "city_centroids.json"))
		if err != nil {
			logger.L().Warn("revgeo_centroids_error", "dir", dir, "err", err)
		}
		snap.Centroids = cents
		snap.Units = loadBoundaries(dir)
	}
	if len(snap.Centroids) == 0 {
		snap.Centroids = DefaultCentroids()
	}
	logger.L().Info("revgeo_snapshot_loaded", "units", len(snap.Units), "centroids", len(snap.Centroids))
	return snap, nil
}

// DefaultCentroids 以历史街区中心作为质心
func DefaultCentroids() []Centroid {
	out := make([]Centroid, 0, len(geo.DefaultZones))
	for _, z := range geo.DefaultZones {
		out = append(out, Centroid{
			Lat:      z.Center.Latitude,
			Lon:      z.Center.Longitude,
			Country:  "Brasil",
			State:    "SP",
			City:     "São Paulo",
			District: z.Name,
		})
	}
	return out
}

func loadCentroids(path string) ([]Centroid, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cents []Centroid
	if err := json.Unmarshal(b, &cents); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	valid := cents[:0]
	for _, c := range cents {
		if (geo.Coordinate{Latitude: c.Lat, Longitude: c.Lon}).Valid() {
			valid = append(valid, c)
		}
	}
	return valid, nil
}

// boundaryRecord boundaries.json 的数组元素
type boundaryRecord struct {
	Country  string            `json:"country"`
	State    string            `json:"state"`
	Province string            `json:"province"`
	City     string            `json:"city"`
	District string            `json:"district"`
	Geometry *geojson.Geometry `json:"geometry"`
}

func loadBoundaries(dir string) []AdminUnit {
	var units []AdminUnit
	if b, err := os.ReadFile(filepath.Join(dir, "boundaries.json")); err == nil {
		var recs []boundaryRecord
		if err := json.Unmarshal(b, &recs); err != nil {
			logger.L().Warn("revgeo_boundaries_error", "err", err)
			return nil
		}
		for _, r := range recs {
			if r.Geometry == nil {
				continue
			}
			state := r.State
			if state == "" {
				state = r.Province
			}
			if u, ok := newUnit(r.Country, state, r.City, r.District, r.Geometry.Geometry()); ok {
				units = append(units, u)
			}
		}
		return units
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(strings.ToLower(ent.Name()), ".geojson") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, ent.Name()))
		if err != nil {
			continue
		}
		units = append(units, parseGeoJSON(ent.Name(), b)...)
	}
	return units
}

func parseGeoJSON(name string, b []byte) []AdminUnit {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		logger.L().Warn("revgeo_geojson_error", "file", name, "err", err)
		return nil
	}
	var feats []*geojson.Feature
	switch strings.ToLower(head.Type) {
	case "featurecollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			logger.L().Warn("revgeo_geojson_error", "file", name, "err", err)
			return nil
		}
		feats = fc.Features
	case "feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			logger.L().Warn("revgeo_geojson_error", "file", name, "err", err)
			return nil
		}
		feats = []*geojson.Feature{f}
	}
	var units []AdminUnit
	for _, f := range feats {
		if f == nil {
			continue
		}
		p := f.Properties
		u, ok := newUnit(prop(p, "country"), prop(p, "state", "province", "region"), prop(p, "city"), prop(p, "district", "neighbourhood"), f.Geometry)
		if ok {
			units = append(units, u)
		}
	}
	return units
}

func prop(p geojson.Properties, keys ...string) string {
	for _, k := range keys {
		if v, ok := p[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// newUnit 仅接受面几何
func newUnit(country, state, city, district string, g orb.Geometry) (AdminUnit, bool) {
	var mp orb.MultiPolygon
	switch v := g.(type) {
	case orb.Polygon:
		mp = orb.MultiPolygon{v}
	case orb.MultiPolygon:
		mp = v
	default:
		return AdminUnit{}, false
	}
	if len(mp) == 0 {
		return AdminUnit{}, false
	}
	return AdminUnit{
		Country:  country,
		State:    state,
		City:     city,
		District: district,
		geom:     mp,
		bound:    mp.Bound(),
	}, true
}
