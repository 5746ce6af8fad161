package services

import (
	"context"
	"iter"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"

	"go.uber.org/zap"
)

// CandidateQuery returns the store predicate for r: same size and gender,
// available, and not owned by the requester.
func CandidateQuery(r domain.Requester) ports.ListingQuery {
	return ports.ListingQuery{
		Size:           r.Size,
		Gender:         r.Gender,
		Available:      true,
		ExcludeOwnerID: r.OwnerID,
	}
}

// FindCandidates pushes the candidate predicate for r down to repo and yields
// the matching listings lazily.
//
// Every yielded listing is re-checked against the predicate, so a store that
// returns extra rows cannot leak the requester's own or unavailable listings.
// The sequence is single-pass; the first store error ends it.
func FindCandidates(
	ctx context.Context,
	r domain.Requester,
	repo ports.ListingRepository,
) iter.Seq2[domain.Listing, error] {
	q := CandidateQuery(r)

	return func(yield func(domain.Listing, error) bool) {
		for l, err := range repo.FindListings(ctx, q) {
			if err != nil {
				yield(domain.Listing{}, err)
				return
			}

			if !q.Matches(l) {
				obs.Logger(ctx).Debug("store returned listing outside candidate filter", zap.String("listing_id", l.ID))
				continue
			}

			if !yield(l, nil) {
				return
			}
		}
	}
}
