package osm

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endpoint = "https://overpass.test/api/interpreter"

const sampleResponse = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 10, "lat": -23.5478, "lon": -46.6339, "tags": {"historic": "building", "name": "Casarão da Rua Direita"}},
    {"type": "node", "id": 11, "lat": -23.5600, "lon": -46.6400, "tags": {"heritage": "2"}},
    {"type": "node", "id": 12, "lat": -23.5506, "lon": -46.6334, "tags": {"amenity": "cafe"}},
    {"type": "node", "id": 21, "lat": -23.5500, "lon": -46.6300},
    {"type": "node", "id": 22, "lat": -23.5510, "lon": -46.6310},
    {"type": "way", "id": 20, "nodes": [21, 22], "tags": {"historic": "monument", "name": "Solar"}}
  ]
}`

func newMocked(t *testing.T) *Client {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClient(endpoint, 2*time.Second, hc)
}

func TestHistoricSites(t *testing.T) {
	c := newMocked(t)
	var query string
	httpmock.RegisterResponder(http.MethodPost, endpoint, func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		vals, _ := url.ParseQuery(string(b))
		query = vals.Get("data")
		return httpmock.NewStringResponse(http.StatusOK, sampleResponse), nil
	})

	sites, err := c.HistoricSites(context.Background(), -23.5505, -46.6333, 2)
	require.NoError(t, err)
	require.Len(t, sites, 3)

	assert.Equal(t, int64(20), sites[0].ID)
	assert.Equal(t, "way", sites[0].Type)
	assert.Equal(t, "Solar", sites[0].Name)
	assert.InDelta(t, -23.5505, sites[0].Coordinates.Latitude, 1e-9)

	assert.Equal(t, int64(10), sites[1].ID)
	assert.Equal(t, "building", sites[1].Historic)

	assert.Equal(t, int64(11), sites[2].ID)
	assert.Equal(t, "2", sites[2].Heritage)
	for i := 1; i < len(sites); i++ {
		assert.LessOrEqual(t, sites[i-1].DistanceKm, sites[i].DistanceKm)
	}

	assert.True(t, strings.Contains(query, `node["historic"](around:2000,-23.550500,-46.633300)`), query)
}

func TestHistoricSites_Errors(t *testing.T) {
	c := newMocked(t)
	httpmock.RegisterResponder(http.MethodPost, endpoint, httpmock.NewStringResponder(http.StatusTooManyRequests, "rate limited"))

	_, err := c.HistoricSites(context.Background(), -23.5505, -46.6333, 1)
	assert.Error(t, err)

	_, err = c.HistoricSites(context.Background(), 95, 0, 1)
	assert.Error(t, err)
}

func TestHistoricSites_ContextCancelled(t *testing.T) {
	c := newMocked(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	httpmock.RegisterResponder(http.MethodPost, endpoint, func(req *http.Request) (*http.Response, error) {
		<-release
		return httpmock.NewStringResponse(http.StatusOK, sampleResponse), nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.HistoricSites(ctx, -23.5505, -46.6333, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
