package services

import (
	"context"
	"fmt"
	"iter"
	"math/rand"
	"swap-match-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqOf(listings ...domain.Listing) iter.Seq2[domain.Listing, error] {
	return func(yield func(domain.Listing, error) bool) {
		for _, l := range listings {
			if !yield(l, nil) {
				return
			}
		}
	}
}

func at(lat, lon float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lon: lon}
}

func listingAt(id string, lat, lon float64) domain.Listing {
	return domain.Listing{ID: id, OwnerID: "other", Size: "M", Gender: "F", Available: true, Position: at(lat, lon)}
}

func ids(m domain.MatchResult) []string {
	out := make([]string, 0, len(m))
	for _, s := range m {
		out = append(out, s.Listing.ID)
	}
	return out
}

func TestRankByProximityRadiusAndRounding(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}

	res, err := RankByProximity(context.Background(), origin, seqOf(
		listingAt("near", 0, 0.01),
		listingAt("far", 10, 10),
	), DefaultRankOptions())
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "near", res.Matches[0].Listing.ID)
	assert.Equal(t, 1.11, res.Matches[0].DistanceKm)
	assert.Zero(t, res.Skipped)
}

func TestRankByProximityTopK(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}

	// Eleven candidates 1.1 km apart along the equator, supplied out of order.
	var listings []domain.Listing
	for _, i := range []int{7, 3, 11, 1, 9, 5, 2, 10, 4, 8, 6} {
		listings = append(listings, listingAt(fmt.Sprintf("c%02d", i), 0, float64(i)*0.01))
	}

	opts := DefaultRankOptions()
	res, err := RankByProximity(context.Background(), origin, seqOf(listings...), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"c01", "c02", "c03", "c04", "c05"}, ids(res.Matches))
	assert.Equal(t, []float64{1.11, 2.22, 3.34, 4.45, 5.56}, []float64{
		res.Matches[0].DistanceKm, res.Matches[1].DistanceKm, res.Matches[2].DistanceKm,
		res.Matches[3].DistanceKm, res.Matches[4].DistanceKm,
	})
}

func TestRankByProximityInclusiveRadius(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}
	edge := domain.HaversineKm(origin, domain.Coordinates{Lat: 0, Lon: 0.1})

	res, err := RankByProximity(context.Background(), origin, seqOf(
		listingAt("edge", 0, 0.1),
		listingAt("beyond", 0, 0.1001),
	), RankOptions{MaxDistanceKm: edge, MaxResults: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"edge"}, ids(res.Matches))
}

func TestRankByProximityTiesKeepInputOrder(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}

	// Same distance in four directions, plus one nearer candidate last.
	res, err := RankByProximity(context.Background(), origin, seqOf(
		listingAt("east", 0, 0.05),
		listingAt("west", 0, -0.05),
		listingAt("east-again", 0, 0.05),
		listingAt("west-again", 0, -0.05),
		listingAt("closest", 0, 0.01),
	), RankOptions{MaxDistanceKm: 20, MaxResults: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"closest", "east", "west", "east-again"}, ids(res.Matches))
}

func TestRankByProximityEqualRoundedDistanceKeepsInputOrder(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}

	// About 1.114 km and 1.106 km: different raw distances, both shown as 1.11.
	res, err := RankByProximity(context.Background(), origin, seqOf(
		listingAt("first", 0, 0.01002),
		listingAt("second", 0, 0.00995),
	), DefaultRankOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, ids(res.Matches))
	assert.Equal(t, 1.11, res.Matches[0].DistanceKm)
	assert.Equal(t, 1.11, res.Matches[1].DistanceKm)
}

func TestRankByProximitySkipsBadCandidates(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}

	missing := listingAt("missing", 0, 0)
	missing.Position = nil

	res, err := RankByProximity(context.Background(), origin, seqOf(
		missing,
		listingAt("out-of-range", 91, 0),
		listingAt("ok", 0, 0.02),
	), DefaultRankOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"ok"}, ids(res.Matches))
	assert.Equal(t, 2, res.Skipped)
}

func TestRankByProximityEmpty(t *testing.T) {
	res, err := RankByProximity(context.Background(), domain.Coordinates{}, seqOf(), DefaultRankOptions())
	require.NoError(t, err)
	assert.NotNil(t, res.Matches)
	assert.Empty(t, res.Matches)
}

func TestRankByProximitySequenceError(t *testing.T) {
	storeErr := fmt.Errorf("query: %w", domain.ErrStoreUnavailable)
	candidates := func(yield func(domain.Listing, error) bool) {
		if !yield(listingAt("a", 0, 0.01), nil) {
			return
		}
		yield(domain.Listing{}, storeErr)
	}

	res, err := RankByProximity(context.Background(), domain.Coordinates{}, candidates, DefaultRankOptions())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, res.Matches, "no partial results on store failure")
}

func TestRankByProximityCancellationStopsScan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	consumed := 0
	candidates := func(yield func(domain.Listing, error) bool) {
		for i := 0; i < 1000; i++ {
			consumed++
			if i == 2 {
				cancel()
			}
			if !yield(listingAt(fmt.Sprint(i), 0, 0.01), nil) {
				return
			}
		}
	}

	_, err := RankByProximity(ctx, domain.Coordinates{}, candidates, DefaultRankOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, consumed)
}

func TestRankByProximityRejectsBadInput(t *testing.T) {
	_, err := RankByProximity(context.Background(), domain.Coordinates{Lat: 100}, seqOf(), DefaultRankOptions())
	assert.True(t, domain.IsValidationError(err))

	_, err = RankByProximity(context.Background(), domain.Coordinates{}, seqOf(), RankOptions{MaxDistanceKm: 0, MaxResults: 5})
	assert.Error(t, err)

	_, err = RankByProximity(context.Background(), domain.Coordinates{}, seqOf(), RankOptions{MaxDistanceKm: 20, MaxResults: 0})
	assert.Error(t, err)
}

func TestRankByProximityProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		origin := domain.Coordinates{Lat: rng.Float64()*160 - 80, Lon: rng.Float64()*360 - 180}
		opts := RankOptions{MaxDistanceKm: 1 + rng.Float64()*60, MaxResults: 1 + rng.Intn(8)}

		var listings []domain.Listing
		for i := 0; i < 40; i++ {
			lat := origin.Lat + (rng.Float64()-0.5)*0.8
			lon := origin.Lon + (rng.Float64()-0.5)*0.8
			if lon > 180 || lon < -180 {
				lon = origin.Lon
			}
			listings = append(listings, listingAt(fmt.Sprint(i), lat, lon))
		}

		res, err := RankByProximity(context.Background(), origin, seqOf(listings...), opts)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(res.Matches), opts.MaxResults)
		for i, m := range res.Matches {
			assert.LessOrEqual(t, domain.HaversineKm(origin, *m.Listing.Position), opts.MaxDistanceKm)
			if i > 0 {
				assert.LessOrEqual(t, res.Matches[i-1].DistanceKm, m.DistanceKm, "inversion at %d", i)
			}
		}
	}
}
