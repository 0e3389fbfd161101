package revgeo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 中心区附近的正方形（含一个洞）
const centroFC = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"country": "Brasil", "province": "SP", "city": "São Paulo", "district": "Sé"},
    "geometry": {
      "type": "Polygon",
      "coordinates": [
        [[-46.64, -23.56], [-46.62, -23.56], [-46.62, -23.54], [-46.64, -23.54], [-46.64, -23.56]],
        [[-46.6305, -23.5505], [-46.6295, -23.5505], [-46.6295, -23.5495], [-46.6305, -23.5495], [-46.6305, -23.5505]]
      ]
    }
  }, {
    "type": "Feature",
    "properties": {"country": "Brasil"},
    "geometry": {"type": "Point", "coordinates": [-46.63, -23.55]}
  }]
}`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadSnapshot_GeoJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "centro.geojson", centroFC)
	writeFile(t, dir, "broken.geojson", `{not json`)

	snap, err := LoadSnapshot(dir)
	require.NoError(t, err)
	require.Len(t, snap.Units, 1)
	assert.Equal(t, "SP", snap.Units[0].State)
	assert.Equal(t, "Sé", snap.Units[0].District)
	assert.Len(t, snap.Centroids, 4)
}

func TestLoadSnapshot_BoundariesAndCentroids(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "boundaries.json", `[
  {"country": "Brasil", "state": "RJ", "city": "Rio de Janeiro",
   "geometry": {"type": "MultiPolygon", "coordinates": [[[[-43.3, -23.0], [-43.1, -23.0], [-43.1, -22.8], [-43.3, -22.8], [-43.3, -23.0]]]]}}
]`)
	writeFile(t, dir, "city_centroids.json", `[
  {"lat": -22.9068, "lon": -43.1729, "country": "Brasil", "state": "RJ", "city": "Rio de Janeiro"},
  {"lat": 123, "lon": 0, "city": "invalid"}
]`)
	snap, err := LoadSnapshot(dir)
	require.NoError(t, err)
	require.Len(t, snap.Units, 1)
	require.Len(t, snap.Centroids, 1)

	o := NewOrchestrator(snap, Options{})
	res := o.Query(-22.9, -43.2)
	assert.False(t, res.Approx)
	assert.Equal(t, "Rio de Janeiro", res.Unit.City)
	assert.Equal(t, 0.9, res.Confidence)
}

func TestLoadSnapshot_MissingDir(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	snap, err := LoadSnapshot("")
	require.NoError(t, err)
	assert.Empty(t, snap.Units)
	assert.Len(t, snap.Centroids, 4)
}

func TestOrchestrator_Query(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "centro.geojson", centroFC)
	snap, err := LoadSnapshot(dir)
	require.NoError(t, err)
	o := NewOrchestrator(snap, Options{MaxRadiusKm: 20})

	// 多边形内
	res := o.Query(-23.545, -46.635)
	assert.False(t, res.Approx)
	assert.Equal(t, "Sé", res.Unit.District)
	assert.Equal(t, 0.9, res.Confidence)

	// 第二次命中缓存
	again := o.Query(-23.545, -46.635)
	assert.Equal(t, res, again)

	// 洞内：回退到最近质心
	hole := o.Query(-23.5500, -46.6300)
	assert.True(t, hole.Approx)
	assert.Equal(t, "Centro Histórico de São Paulo", hole.Unit.District)
	assert.Equal(t, 0.6, hole.Confidence)

	// 多边形外但在半径内
	vm := o.Query(-23.5590, -46.6900)
	assert.True(t, vm.Approx)
	assert.Equal(t, "Vila Madalena", vm.Unit.District)

	// 远离所有质心
	far := o.Query(-22.9068, -43.1729)
	assert.True(t, far.Approx)
	assert.True(t, far.Unit.Empty())

	bad := o.Query(200, 0)
	assert.True(t, bad.Unit.Empty())
}

func TestKDTreeMatchesLinearScan(t *testing.T) {
	var cs []Centroid
	for i := 0; i < 40; i++ {
		for j := 0; j < 10; j++ {
			cs = append(cs, Centroid{Lat: -30 + float64(i)*0.37, Lon: -50 + float64(j)*1.13})
		}
	}
	kd := buildKD(append([]Centroid(nil), cs...), 0)
	queries := [][2]float64{{-23.55, -46.63}, {-29.9, -49.1}, {-16.1, -40.2}, {-25, -60}}
	for _, q := range queries {
		got, gotD := kd.nearest(q[0], q[1])
		want, wantD := Centroid{}, 1e18
		for _, c := range cs {
			if d := haversineFor(q, c); d < wantD {
				want, wantD = c, d
			}
		}
		assert.InDelta(t, wantD, gotD, 1e-9)
		assert.Equal(t, want, got)
	}
}

func haversineFor(q [2]float64, c Centroid) float64 {
	_, d := (&kdNode{c: c}).nearest(q[0], q[1])
	return d
}

func TestStats(t *testing.T) {
	o := NewOrchestrator(nil, Options{})
	u, c := o.Stats()
	assert.Equal(t, 0, u)
	assert.Equal(t, 4, c)
}
