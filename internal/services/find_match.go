package services

import (
	"context"
	"fmt"
	"strings"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"
)

// NewRequester validates raw request values and builds the Requester for one query.
func NewRequester(size, gender, ownerID string, lat, lon float64) (domain.Requester, error) {
	r := domain.Requester{
		Size:     strings.TrimSpace(size),
		Gender:   strings.TrimSpace(gender),
		OwnerID:  strings.TrimSpace(ownerID),
		Position: domain.Coordinates{Lat: lat, Lon: lon},
	}

	if r.Size == "" {
		return domain.Requester{}, &domain.ValidationError{Field: "size", Reason: "must not be empty"}
	}
	if r.Gender == "" {
		return domain.Requester{}, &domain.ValidationError{Field: "gender", Reason: "must not be empty"}
	}
	if r.OwnerID == "" {
		return domain.Requester{}, &domain.ValidationError{Field: "owner_id", Reason: "must not be empty"}
	}
	if err := r.Position.Validate(); err != nil {
		return domain.Requester{}, err
	}

	return r, nil
}

// FindMatch runs the matching pipeline for r: candidate filtering against repo,
// then proximity ranking.
//
// Store failures are returned wrapped and never yield partial matches.
func FindMatch(
	ctx context.Context,
	r domain.Requester,
	repo ports.ListingRepository,
	opts RankOptions,
) (_ RankResult, err error) {
	defer obs.Time(ctx, "match.FindMatch")(&err)

	candidates := FindCandidates(ctx, r, repo)

	res, err := RankByProximity(ctx, r.Position, candidates, opts)
	if err != nil {
		return RankResult{}, fmt.Errorf("find match: owner=%q: %w", r.OwnerID, err)
	}

	return res, nil
}
