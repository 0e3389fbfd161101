package api

import (
	"net/http"
	"strings"

	"patrio-api/internal/analysis"
	"patrio-api/internal/geo"
)

func (s *server) distance(w http.ResponseWriter, r *http.Request) {
	lat1, lon1, err := floatPair(r, "lat1", "lon1")
	if err != nil {
		badRequest(w, err)
		return
	}
	lat2, lon2, err := floatPair(r, "lat2", "lon2")
	if err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"distance_km": geo.DistanceKm(lat1, lon1, lat2, lon2)})
}

// directions：目标可用 to_lat/to_lon 或 building_id 指定
func (s *server) directions(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := floatPair(r, "from_lat", "from_lon")
	if err != nil {
		badRequest(w, err)
		return
	}
	if id := strings.TrimSpace(r.URL.Query().Get("building_id")); id != "" {
		b, ok := s.Catalog.ByID(id)
		if !ok {
			writeError(w, http.StatusNotFound, "Edifício não encontrado")
			return
		}
		writeJSON(w, http.StatusOK, geo.DirectionsTo(lat, lon, b.Coordinates.Latitude, b.Coordinates.Longitude))
		return
	}
	toLat, toLon, err := floatPair(r, "to_lat", "to_lon")
	if err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, geo.DirectionsTo(lat, lon, toLat, toLon))
}

func (s *server) historicalArea(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := floatPair(r, "lat", "lon")
	if err != nil {
		badRequest(w, err)
		return
	}
	zones := geo.ZonesContaining(geo.DefaultZones, geo.Coordinate{Latitude: lat, Longitude: lon})
	writeJSON(w, http.StatusOK, map[string]any{
		"in_historical_area": geo.IsInHistoricalArea(lat, lon),
		"zones":              zones,
	})
}

func (s *server) zones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, geo.DefaultZones)
}

func (s *server) buildings(w http.ResponseWriter, r *http.Request) {
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		writeJSON(w, http.StatusOK, s.Catalog.Search(q))
		return
	}
	writeJSON(w, http.StatusOK, s.Catalog.All())
}

func (s *server) building(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b, ok := s.Catalog.ByID(id)
	if !ok {
		b, ok = s.Catalog.ByKey(id)
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Edifício não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *server) nearbyBuildings(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := floatPair(r, "lat", "lon")
	if err != nil {
		badRequest(w, err)
		return
	}
	maxKm, err := optionalFloatParam(r, "max_km", analysis.DefaultNearbyRadiusKm)
	if err != nil || maxKm < 0 {
		badRequest(w, paramError{"max_km"})
		return
	}
	out := []analysis.NearbyBuilding{}
	for _, m := range s.Catalog.Nearby(lat, lon, maxKm) {
		out = append(out, analysis.NearbyBuilding{
			Building:   m.Item,
			DistanceKm: m.DistanceKm,
			Directions: geo.DirectionsTo(lat, lon, m.Item.Coordinates.Latitude, m.Item.Coordinates.Longitude),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
