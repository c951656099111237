package services

import (
	"context"
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

// Track returns a driver's recent history as a GeoJSON Feature. With two or
// more pings the geometry is a LineString in chronological order; a single
// ping yields a Point.
func (s *LocationService) Track(ctx context.Context, driverID uint, limit int) (json.RawMessage, error) {
	pings, err := s.History(ctx, driverID, limit)
	if err != nil {
		return nil, err
	}
	if len(pings) == 0 {
		return nil, apperr.NotFound("no location found for this driver")
	}
	return TrackFeature(driverID, pings)
}

// TrackFeature builds the feature from newest-first pings.
func TrackFeature(driverID uint, pings []models.LocationPing) (json.RawMessage, error) {
	coords := make([]geom.Coord, 0, len(pings))
	for i := len(pings) - 1; i >= 0; i-- {
		coords = append(coords, geom.Coord{pings[i].Longitude, pings[i].Latitude})
	}

	var g geom.T
	if len(coords) == 1 {
		g = geom.NewPointFlat(geom.XY, coords[0])
	} else {
		ls, err := geom.NewLineString(geom.XY).SetCoords(coords)
		if err != nil {
			return nil, apperr.Internal(err, "could not build track geometry")
		}
		g = ls
	}

	newest, oldest := pings[0], pings[len(pings)-1]
	f := &geojson.Feature{
		ID:       "driver-track",
		Geometry: g,
		Properties: map[string]interface{}{
			"transportista_id": driverID,
			"points":           len(pings),
			"desde":            oldest.RecordedAt,
			"hasta":            newest.RecordedAt,
		},
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, apperr.Internal(err, "could not encode track")
	}
	return b, nil
}
