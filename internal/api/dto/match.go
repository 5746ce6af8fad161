package dto

import "time"

// Fields are pointers so that a missing field can be told apart from a zero value.
type FindMatchRequest struct {
	Size          *string  `json:"size"`
	Gender        *string  `json:"gender"`
	OwnerID       *string  `json:"owner_id"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	MaxDistanceKm *float64 `json:"max_distance_km"`
	MaxResults    *int     `json:"max_results"`
}

// GeoJSON Point; coordinates are [lon, lat].
type LocationResponse struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type MatchResponse struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Size        string            `json:"size"`
	Gender      string            `json:"gender"`
	Condition   string            `json:"condition"`
	Brand       string            `json:"brand"`
	Color       string            `json:"color"`
	ImageURLs   []string          `json:"image_urls"`
	PointsValue int               `json:"points_value"`
	Available   bool              `json:"available"`
	Location    *LocationResponse `json:"location"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
	DistanceKm  float64           `json:"distance_km"`
}

type FindMatchResponse struct {
	Matches []MatchResponse `json:"matches"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
