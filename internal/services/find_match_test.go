package services

import (
	"context"
	"fmt"
	"swap-match-service/internal/adapters/repositories"
	"swap-match-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRequester(t *testing.T) {
	r, err := NewRequester(" M ", "F", "u1", 19.07, 72.87)
	require.NoError(t, err)
	assert.Equal(t, domain.Requester{
		Size:     "M",
		Gender:   "F",
		OwnerID:  "u1",
		Position: domain.Coordinates{Lat: 19.07, Lon: 72.87},
	}, r)

	tests := []struct {
		name                string
		size, gender, owner string
		lat, lon            float64
		field               string
	}{
		{name: "blank size", size: "  ", gender: "F", owner: "u1", field: "size"},
		{name: "blank gender", size: "M", owner: "u1", field: "gender"},
		{name: "blank owner", size: "M", gender: "F", field: "owner_id"},
		{name: "latitude out of range", size: "M", gender: "F", owner: "u1", lat: -91, field: "latitude"},
		{name: "longitude out of range", size: "M", gender: "F", owner: "u1", lon: 181, field: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequester(tt.size, tt.gender, tt.owner, tt.lat, tt.lon)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestFindMatchScenarioA(t *testing.T) {
	repo := repositories.NewMemoryListingRepository([]domain.Listing{
		{ID: "near", OwnerID: "u2", Size: "M", Gender: "F", Available: true, Position: at(0, 0.01)},
		{ID: "far", OwnerID: "u3", Size: "M", Gender: "F", Available: true, Position: at(10, 10)},
	})
	r, err := NewRequester("M", "F", "u1", 0, 0)
	require.NoError(t, err)

	res, err := FindMatch(context.Background(), r, repo, DefaultRankOptions())
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "near", res.Matches[0].Listing.ID)
	assert.InDelta(t, 1.11, res.Matches[0].DistanceKm, 1e-9)
}

func TestFindMatchScenarioBNoAttributeMatch(t *testing.T) {
	repo := repositories.NewMemoryListingRepository([]domain.Listing{
		{ID: "l", OwnerID: "u2", Size: "L", Gender: "F", Available: true, Position: at(0, 0.01)},
		{ID: "mm", OwnerID: "u2", Size: "M", Gender: "M", Available: true, Position: at(0, 0.01)},
	})
	r, _ := NewRequester("M", "F", "u1", 0, 0)

	res, err := FindMatch(context.Background(), r, repo, DefaultRankOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
}

func TestFindMatchScenarioCTopFive(t *testing.T) {
	repo := repositories.NewMemoryListingRepository(nil)
	for i := 11; i >= 1; i-- {
		repo.Add(domain.Listing{
			ID:        fmt.Sprintf("c%02d", i),
			OwnerID:   "u2",
			Size:      "M",
			Gender:    "F",
			Available: true,
			Position:  at(0, float64(i)*0.01),
		})
	}
	r, _ := NewRequester("M", "F", "u1", 0, 0)

	res, err := FindMatch(context.Background(), r, repo, DefaultRankOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"c01", "c02", "c03", "c04", "c05"}, ids(res.Matches))
}

func TestFindMatchExcludesOwnAndUnavailable(t *testing.T) {
	repo := repositories.NewMemoryListingRepository([]domain.Listing{
		{ID: "own", OwnerID: "u1", Size: "M", Gender: "F", Available: true, Position: at(0, 0)},
		{ID: "gone", OwnerID: "u2", Size: "M", Gender: "F", Available: false, Position: at(0, 0)},
		{ID: "ok", OwnerID: "u2", Size: "M", Gender: "F", Available: true, Position: at(0, 0.1)},
	})
	r, _ := NewRequester("M", "F", "u1", 0, 0)

	res, err := FindMatch(context.Background(), r, repo, DefaultRankOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, ids(res.Matches))
}

func TestFindMatchScenarioEStoreUnavailable(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("FindListings", mock.Anything, mock.Anything).Return(
		[]domain.Listing{{ID: "early", OwnerID: "u2", Size: "M", Gender: "F", Available: true, Position: at(0, 0.01)}},
		fmt.Errorf("dial tcp: %w", domain.ErrStoreUnavailable),
	)
	r, _ := NewRequester("M", "F", "u1", 0, 0)

	res, err := FindMatch(context.Background(), r, repo, DefaultRankOptions())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, res.Matches)
	repo.AssertExpectations(t)
}
