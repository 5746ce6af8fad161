package repositories

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/ports"
	"sync"
)

// In-memory implementation of the ListingRepository port.
// Used for local runs without Postgres and as a test double.
type MemoryListingRepository struct {
	mu       sync.RWMutex
	listings []domain.Listing
}

func NewMemoryListingRepository(listings []domain.Listing) *MemoryListingRepository {
	return &MemoryListingRepository{listings: slices.Clone(listings)}
}

// Add appends listings in insertion order.
func (m *MemoryListingRepository) Add(listings ...domain.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append(m.listings, listings...)
}

// Return matching listings in insertion order.
func (m *MemoryListingRepository) FindListings(ctx context.Context, q ports.ListingQuery) iter.Seq2[domain.Listing, error] {
	return func(yield func(domain.Listing, error) bool) {
		m.mu.RLock()
		snapshot := slices.Clone(m.listings)
		m.mu.RUnlock()

		for _, l := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(domain.Listing{}, fmt.Errorf("memory listing repository: %w", err))
				return
			}
			if !q.Matches(l) {
				continue
			}
			if !yield(l, nil) {
				return
			}
		}
	}
}

func (m *MemoryListingRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
