package domain

import "time"

// Represents a clothing item offered for swapping.
// Listings are owned by the listing store; the matcher only reads them.
// Position is nil when the stored location is missing or malformed.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Size        string
	Gender      string
	Condition   string
	Brand       string
	Color       string
	ImageURLs   []string
	PointsValue int
	Available   bool
	Position    *Coordinates
	CreatedAt   time.Time
}

// Describes who is asking for a match and where they are.
// A Requester lives only for the duration of one match query.
type Requester struct {
	Size     string
	Gender   string
	OwnerID  string
	Position Coordinates
}

// A candidate listing together with its distance from the requester.
type ScoredListing struct {
	Listing    Listing
	DistanceKm float64
}

// Ordered by ascending DistanceKm, never longer than the configured result limit.
type MatchResult []ScoredListing
