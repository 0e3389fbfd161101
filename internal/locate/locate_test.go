package locate

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrio-api/internal/geo"
	"patrio-api/internal/ipgeo"
	"patrio-api/internal/revgeo"
)

const nominatimBase = "https://nominatim.test"

const nominatimOK = `{
  "place_id": 1,
  "display_name": "Rua Direita, Sé, São Paulo",
  "address": {
    "road": "Rua Direita",
    "house_number": "123",
    "suburb": "Sé",
    "city": "São Paulo",
    "state": "São Paulo",
    "postcode": "01002-000",
    "country": "Brasil",
    "country_code": "br"
  }
}`

type stubGeocoder struct {
	name  string
	res   Result
	err   error
	calls int
}

func (s *stubGeocoder) Name() string { return s.name }

func (s *stubGeocoder) Reverse(_ context.Context, lat, lon float64) (Result, error) {
	s.calls++
	if s.err != nil {
		return Result{}, s.err
	}
	r := s.res
	r.Latitude, r.Longitude = lat, lon
	return r, nil
}

type stubIP struct {
	area ipgeo.Area
	ok   bool
}

func (s stubIP) Lookup(string) (ipgeo.Area, bool) { return s.area, s.ok }

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "Rua Direita, 123, São Paulo, SP, Brasil",
		FormatAddress(AddressParts{Street: "Rua Direita", Number: "123", City: "São Paulo", State: "SP", Country: "Brasil"}))
	assert.Equal(t, "São Paulo, Brasil", FormatAddress(AddressParts{City: " São Paulo ", Country: "Brasil"}))
	assert.Equal(t, AddressUnavailable, FormatAddress(AddressParts{}))
}

func TestNominatim_Reverse(t *testing.T) {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, nominatimBase+"/reverse", func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "jsonv2", q.Get("format"))
		assert.Equal(t, "-23.550500", q.Get("lat"))
		assert.Equal(t, "pt-BR", q.Get("accept-language"))
		assert.NotEmpty(t, req.Header.Get("User-Agent"))
		return httpmock.NewStringResponse(http.StatusOK, nominatimOK), nil
	})

	g := NewNominatim(nominatimBase, hc)
	res, err := g.Reverse(context.Background(), -23.5505, -46.6333)
	require.NoError(t, err)
	assert.Equal(t, "Rua Direita, 123, São Paulo, São Paulo, Brasil", res.Address)
	assert.Equal(t, "São Paulo", res.City)
	assert.Equal(t, "01002-000", res.PostalCode)
	assert.Equal(t, "nominatim", res.Source)
	assert.InDelta(t, -23.5505, res.Latitude, 1e-9)
}

func TestNominatim_NotFoundAndErrors(t *testing.T) {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	g := NewNominatim(nominatimBase, hc)

	httpmock.RegisterResponder(http.MethodGet, nominatimBase+"/reverse",
		httpmock.NewStringResponder(http.StatusOK, `{"error":"Unable to geocode"}`))
	_, err := g.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	httpmock.RegisterResponder(http.MethodGet, nominatimBase+"/reverse",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy"))
	_, err = g.Reverse(context.Background(), 0, 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	httpmock.RegisterResponder(http.MethodGet, nominatimBase+"/reverse",
		httpmock.NewStringResponder(http.StatusOK, `<html>`))
	_, err = g.Reverse(context.Background(), 0, 0)
	assert.Error(t, err)
}

func TestSnapshotGeocoder(t *testing.T) {
	g := NewSnapshotGeocoder(revgeo.NewOrchestrator(nil, revgeo.Options{MaxRadiusKm: 20}))

	res, err := g.Reverse(context.Background(), -23.5505, -46.6333)
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", res.City)
	assert.Equal(t, "SP", res.State)
	assert.Equal(t, "Brasil", res.Country)
	assert.Equal(t, "Centro Histórico de São Paulo, São Paulo, SP, Brasil", res.Address)
	assert.Equal(t, "snapshot", res.Source)

	_, err = g.Reverse(context.Background(), -22.9068, -43.1729)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_ChainOrder(t *testing.T) {
	failing := &stubGeocoder{name: "a", err: errors.New("boom")}
	ok := &stubGeocoder{name: "b", res: Result{Address: "X", City: "C", State: "S", Country: "P", Source: "b"}}
	never := &stubGeocoder{name: "c", res: Result{Address: "Y"}}
	r := NewResolver([]Geocoder{failing, nil, ok, never})

	res := r.Resolve(context.Background(), &geo.Coordinate{Latitude: -23.55, Longitude: -46.63}, "")
	assert.Equal(t, "X", res.Address)
	assert.Equal(t, "b", res.Source)
	assert.InDelta(t, -23.55, res.Latitude, 1e-9)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 0, never.calls)
}

func TestResolver_TotalFailure(t *testing.T) {
	ctx := context.Background()
	pos := &geo.Coordinate{Latitude: 10, Longitude: 20}

	r := NewResolver([]Geocoder{
		&stubGeocoder{name: "a", err: ErrNotFound},
		&stubGeocoder{name: "b", err: errors.New("timeout")},
	})
	res := r.Resolve(ctx, pos, "")
	assert.Equal(t, AddressError, res.Address)
	assert.Equal(t, Unknown, res.City)
	assert.Equal(t, Unknown, res.State)
	assert.Equal(t, Unknown, res.Country)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, 10.0, res.Latitude)
	assert.Equal(t, 20.0, res.Longitude)

	r = NewResolver([]Geocoder{&stubGeocoder{name: "a", err: ErrNotFound}})
	assert.Equal(t, AddressNotFound, r.Resolve(ctx, pos, "").Address)

	r = NewResolver(nil)
	assert.Equal(t, AddressNotFound, r.Resolve(ctx, pos, "").Address)
}

func TestResolver_NoCoordinate(t *testing.T) {
	ctx := context.Background()

	r := NewResolver(nil, WithIPLocator(stubIP{ok: true, area: ipgeo.Area{
		Latitude: -22.9, Longitude: -43.2, HasCoordinates: true,
		City: "Rio de Janeiro", State: "RJ", Country: "Brasil", Source: "geoip2",
	}}))
	res := r.Resolve(ctx, nil, "200.1.2.3")
	assert.Equal(t, "Rio de Janeiro, RJ, Brasil", res.Address)
	assert.Equal(t, "ip:geoip2", res.Source)
	assert.InDelta(t, -22.9, res.Latitude, 1e-9)

	// 只有名称的结果不作为位置
	r = NewResolver(nil, WithIPLocator(stubIP{ok: true, area: ipgeo.Area{City: "Campinas", Source: "ip2region"}}))
	assert.Equal(t, DemoLocation(), r.Resolve(ctx, nil, "200.1.2.3"))
	area, ok := r.IPArea("200.1.2.3")
	assert.True(t, ok)
	assert.Equal(t, "Campinas", area.City)

	// 非法坐标同样走 IP / 演示位置
	r = NewResolver([]Geocoder{&stubGeocoder{name: "a"}})
	assert.Equal(t, DemoLocation(), r.Resolve(ctx, &geo.Coordinate{Latitude: 91}, ""))
}

func TestDemoLocation(t *testing.T) {
	d := DemoLocation()
	assert.Equal(t, -23.5505, d.Latitude)
	assert.Equal(t, -46.6333, d.Longitude)
	assert.Equal(t, "São Paulo", d.City)
	assert.Equal(t, "SP", d.State)
	assert.Equal(t, "Brasil", d.Country)
	assert.Equal(t, "01234-567", d.PostalCode)
	assert.True(t, geo.IsInHistoricalArea(d.Latitude, d.Longitude))
}

// 需要真实 Redis：REDIS_TEST_ADDR=127.0.0.1:6379
func TestResolver_RedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	lat, lon := -23.5431, -46.6291
	require.NoError(t, rdb.Del(ctx, cacheKey(lat, lon)).Err())

	g := &stubGeocoder{name: "a", res: Result{Address: "Mosteiro", City: "São Paulo", State: "SP", Country: "Brasil", Source: "a"}}
	r := NewResolver([]Geocoder{g}, WithCache(rdb, time.Minute))

	first := r.Reverse(ctx, lat, lon)
	second := r.Reverse(ctx, lat, lon)
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, "a", first.Source)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Address, second.Address)
}
