package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"swap-match-service/internal/domain"
	"time"
)

// ListingSeed is the on-disk shape of a seeded listing, mirroring the stored document.
type ListingSeed struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Size        string          `json:"size"`
	Gender      string          `json:"gender"`
	Condition   string          `json:"condition"`
	Brand       string          `json:"brand"`
	Color       string          `json:"color"`
	ImageURLs   []string        `json:"image_urls"`
	PointsValue int             `json:"points_value"`
	Available   bool            `json:"available"`
	Location    json.RawMessage `json:"location"`
	CreatedAt   *time.Time      `json:"created_at"`
}

// LoadListingsJSON reads seeded listings from a JSON array file.
//
// Listings with a malformed location are kept with a nil Position, matching
// what the store would return for such a document.
func LoadListingsJSON(jsonPath string) ([]domain.Listing, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load listings: read %q: %w", jsonPath, err)
	}

	var data []ListingSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load listings: parse json: %w", err)
	}

	listings := make([]domain.Listing, 0, len(data))
	for i, item := range data {
		l, err := item.toListing()
		if err != nil {
			return nil, fmt.Errorf("load listings: item at index %d: %w", i+1, err)
		}
		listings = append(listings, l)
	}

	return listings, nil
}

func (s ListingSeed) toListing() (domain.Listing, error) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return domain.Listing{}, fmt.Errorf("id cannot be empty")
	}

	owner := strings.TrimSpace(s.OwnerID)
	if owner == "" {
		return domain.Listing{}, fmt.Errorf("listing %s: owner_id cannot be empty", id)
	}

	// A bad location is data, not a seed failure.
	pos, _ := decodeLocation(s.Location)

	l := domain.Listing{
		ID:          id,
		OwnerID:     owner,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Size:        s.Size,
		Gender:      s.Gender,
		Condition:   s.Condition,
		Brand:       s.Brand,
		Color:       s.Color,
		ImageURLs:   s.ImageURLs,
		PointsValue: s.PointsValue,
		Available:   s.Available,
		Position:    pos,
	}
	if s.CreatedAt != nil {
		l.CreatedAt = *s.CreatedAt
	}

	return l, nil
}
