package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/platform/obs"

	"go.uber.org/zap"
)

var errMissingPosition = errors.New("listing has no location")

// RankOptions bounds the ranked result.
type RankOptions struct {
	MaxDistanceKm float64
	MaxResults    int
}

// DefaultRankOptions returns the reference 20 km radius and top-5 limit.
func DefaultRankOptions() RankOptions {
	return RankOptions{MaxDistanceKm: 20, MaxResults: 5}
}

func (o RankOptions) validate() error {
	if !(o.MaxDistanceKm > 0) || math.IsInf(o.MaxDistanceKm, 0) {
		return fmt.Errorf("rank options: max distance must be a positive finite number, got %v", o.MaxDistanceKm)
	}
	if o.MaxResults < 1 {
		return fmt.Errorf("rank options: max results must be positive, got %d", o.MaxResults)
	}
	return nil
}

// RankResult is the outcome of one ranking pass.
// Skipped counts candidates dropped because their location was unusable.
type RankResult struct {
	Matches domain.MatchResult
	Skipped int
}

type rankedCandidate struct {
	listing    domain.Listing
	distanceKm float64
	seq        int
}

// RankByProximity scores each candidate by great-circle distance from origin,
// drops those farther than opts.MaxDistanceKm, and returns the nearest
// opts.MaxResults in ascending distance order.
//
// The radius check uses the unrounded distance. Ordering uses DistanceKm as
// returned, rounded to two decimals, so candidates showing the same distance
// keep the order in which the sequence produced them; the input position is an
// explicit secondary sort key.
//
// A candidate without a usable location is skipped and logged. A sequence error
// aborts the pass without a partial result. ctx is checked before each candidate.
func RankByProximity(
	ctx context.Context,
	origin domain.Coordinates,
	candidates iter.Seq2[domain.Listing, error],
	opts RankOptions,
) (RankResult, error) {
	if err := origin.Validate(); err != nil {
		return RankResult{}, fmt.Errorf("rank by proximity: origin: %w", err)
	}
	if err := opts.validate(); err != nil {
		return RankResult{}, fmt.Errorf("rank by proximity: %w", err)
	}

	var (
		kept    []rankedCandidate
		seq     int
		skipped int
	)

	for l, err := range candidates {
		if err != nil {
			return RankResult{}, fmt.Errorf("rank by proximity: read candidates: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return RankResult{}, fmt.Errorf("rank by proximity: after %d candidates: %w", seq, err)
		}
		seq++

		pos, err := candidatePosition(l)
		if err != nil {
			skipped++
			obs.Logger(ctx).Warn("skipping candidate", zap.String("listing_id", l.ID), zap.Error(err))
			continue
		}

		d := domain.HaversineKm(origin, pos)
		if d > opts.MaxDistanceKm {
			continue
		}

		kept = append(kept, rankedCandidate{listing: l, distanceKm: roundKm(d), seq: seq})
	}

	slices.SortStableFunc(kept, func(a, b rankedCandidate) int {
		if c := cmp.Compare(a.distanceKm, b.distanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	if len(kept) > opts.MaxResults {
		kept = kept[:opts.MaxResults]
	}

	matches := make(domain.MatchResult, 0, len(kept))
	for _, c := range kept {
		matches = append(matches, domain.ScoredListing{
			Listing:    c.listing,
			DistanceKm: c.distanceKm,
		})
	}

	return RankResult{Matches: matches, Skipped: skipped}, nil
}

func candidatePosition(l domain.Listing) (domain.Coordinates, error) {
	if l.Position == nil {
		return domain.Coordinates{}, &domain.CandidateDataError{ListingID: l.ID, Err: errMissingPosition}
	}
	if err := l.Position.Validate(); err != nil {
		return domain.Coordinates{}, &domain.CandidateDataError{ListingID: l.ID, Err: err}
	}
	return *l.Position, nil
}

func roundKm(d float64) float64 {
	return math.Round(d*100) / 100
}
