package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"swap-match-service/internal/domain"
)

// Stored listing location: a GeoJSON Point whose coordinates are [lon, lat].
type geoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func newGeoPoint(c domain.Coordinates) *geoPoint {
	return &geoPoint{Type: "Point", Coordinates: c.CoordsToList()}
}

// Convert the stored point into domain coordinates. The [lon, lat] ordering
// is resolved here and nowhere else.
func (p *geoPoint) coordinates() (domain.Coordinates, error) {
	if p == nil {
		return domain.Coordinates{}, errors.New("location is missing")
	}
	if p.Type != "" && p.Type != "Point" {
		return domain.Coordinates{}, fmt.Errorf("location type %q is not a Point", p.Type)
	}
	return domain.CoordinatesFromLonLat(p.Coordinates)
}

// Decode a raw location column. Malformed or missing locations decode to nil
// so the listing can still be read and skipped later by ranking.
func decodeLocation(raw []byte) (*domain.Coordinates, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var p geoPoint
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}

	c, err := p.coordinates()
	if err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	return &c, nil
}

func encodeLocation(c *domain.Coordinates) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(newGeoPoint(*c))
}
