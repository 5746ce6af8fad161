package ports

import (
	"context"
	"iter"
	"swap-match-service/internal/domain"
)

// Equality predicate pushed down to the listing store.
// A listing matches when Size and Gender are equal, Available equals the
// requested availability, and OwnerID differs from ExcludeOwnerID.
type ListingQuery struct {
	Size           string
	Gender         string
	Available      bool
	ExcludeOwnerID string
}

// Matches evaluates the query against a single listing in process.
func (q ListingQuery) Matches(l domain.Listing) bool {
	return l.Size == q.Size &&
		l.Gender == q.Gender &&
		l.Available == q.Available &&
		l.OwnerID != q.ExcludeOwnerID
}

// Port: a boundary for querying Listing entities by equality filters.
type ListingRepository interface {
	// Return a lazy, single-pass sequence of listings matching q.
	// Store failures are yielded as errors wrapping domain.ErrStoreUnavailable;
	// iteration stops after the first error.
	FindListings(ctx context.Context, q ListingQuery) iter.Seq2[domain.Listing, error]
}
