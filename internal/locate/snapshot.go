package locate

import (
	"context"

	"patrio-api/internal/metrics"
	"patrio-api/internal/revgeo"
)

// SnapshotGeocoder：离线快照反地理，只到街区/城市级
type SnapshotGeocoder struct {
	orch *revgeo.Orchestrator
}

func NewSnapshotGeocoder(o *revgeo.Orchestrator) *SnapshotGeocoder {
	return &SnapshotGeocoder{orch: o}
}

func (g *SnapshotGeocoder) Name() string { return "snapshot" }

func (g *SnapshotGeocoder) Reverse(_ context.Context, lat, lon float64) (Result, error) {
	res := g.orch.Query(lat, lon)
	if res.Unit.Empty() {
		metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "empty").Inc()
		return Result{}, ErrNotFound
	}
	metrics.GeocodeRequestsTotal.WithLabelValues(g.Name(), "ok").Inc()
	u := res.Unit
	return Result{
		Latitude:  lat,
		Longitude: lon,
		Address: FormatAddress(AddressParts{
			Street:  u.District,
			City:    u.City,
			State:   u.State,
			Country: u.Country,
		}),
		City:    u.City,
		State:   u.State,
		Country: u.Country,
		Source:  g.Name(),
	}.orUnknown(), nil
}
