package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Build coordinates from a [lon, lat] pair as stored by GeoJSON-style documents.
func CoordinatesFromLonLat(pair []float64) (Coordinates, error) {
	if len(pair) != 2 {
		return Coordinates{}, &ValidationError{Field: "coordinates", Reason: "must be a [longitude, latitude] pair"}
	}

	c := Coordinates{Lat: pair[1], Lon: pair[0]}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}

	return c, nil
}

// Return coordinates as [lon, lat] for storage compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Validate reports out-of-range or non-finite values. Values are never clamped.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return &ValidationError{Field: "latitude", Reason: "must be a finite number"}
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return &ValidationError{Field: "longitude", Reason: "must be a finite number"}
	}
	if c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}

	return nil
}
