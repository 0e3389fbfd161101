package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrio-api/internal/geo"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 8, c.Len())

	b, ok := c.ByID("3")
	require.True(t, ok)
	assert.Equal(t, "Solar dos Barões", b.Name)

	k, ok := c.ByKey("procopio_gomes")
	require.True(t, ok)
	assert.Equal(t, "Colonial Português", k.Style)
	assert.Len(t, c.Known(), 3)

	_, ok = c.ByID("404")
	assert.False(t, ok)
}

func TestKnownBuildingsSitInsideZones(t *testing.T) {
	for _, b := range Default().Known() {
		assert.True(t, geo.IsInHistoricalArea(b.Coordinates.Latitude, b.Coordinates.Longitude), b.Key)
	}
}

func TestSearch(t *testing.T) {
	c := Default()
	names := func(bs []Building) []string {
		var out []string
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}
	assert.Equal(t, []string{"1", "5", "palacete_art_deco"}, names(c.Search("ART")))
	assert.Equal(t, []string{"2", "palacete_art_deco"}, names(c.Search("bela vista")))
	assert.Len(t, c.Search(""), 8)
	assert.Empty(t, c.Search("inexistente"))
}

func TestMatch(t *testing.T) {
	c := Default()
	tests := []struct {
		name    string
		labels  []string
		objects []string
		want    string
	}{
		{"characteristics", []string{"colonial", "mansion"}, []string{}, "procopio_gomes"},
		{"best_score_wins", []string{"neoclassical palace"}, []string{"mansion"}, "solar_do_baron"},
		{"alias_wins", []string{"Art Deco building"}, []string{"mansion", "palace", "colonial"}, "palacete_art_deco"},
		{"alias_in_objects", []string{}, []string{"Procopio Gomes house"}, "procopio_gomes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := c.Match(tt.labels, tt.objects)
			require.True(t, ok)
			assert.Equal(t, tt.want, b.Key)
		})
	}

	_, ok := c.Match([]string{"building", "mansion"}, nil)
	assert.False(t, ok)
	_, ok = c.Match(nil, nil)
	assert.False(t, ok)
}

func TestCatalogIsReadOnly(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Materials[0] = "Plástico"
	all[0].Name = "Outro"

	b, _ := c.ByID("1")
	assert.Equal(t, "Pedra", b.Materials[0])
	assert.Equal(t, "Palacete dos Andradas", b.Name)
}

func TestNearby(t *testing.T) {
	c := Default()
	got := c.Nearby(-23.5505, -46.6333, 0.001)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Item.ID)
	assert.Equal(t, 0.0, got[0].DistanceKm)

	all := c.Nearby(-23.5505, -46.6333, 10)
	require.Len(t, all, 8)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].DistanceKm, all[i].DistanceKm)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Building{{ID: "a", Coordinates: geo.Coordinate{}}, {ID: "a", Coordinates: geo.Coordinate{}}})
	assert.Error(t, err)
	_, err = New([]Building{{ID: "b", Coordinates: geo.Coordinate{Latitude: 95}}})
	assert.Error(t, err)
	_, err = New([]Building{{Name: "sem id"}})
	assert.Error(t, err)
}
