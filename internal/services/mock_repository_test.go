package services

import (
	"context"
	"iter"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/ports"

	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindListings(ctx context.Context, q ports.ListingQuery) iter.Seq2[domain.Listing, error] {
	args := m.Called(ctx, q)
	listings, _ := args.Get(0).([]domain.Listing)
	err := args.Error(1)

	return func(yield func(domain.Listing, error) bool) {
		for _, l := range listings {
			if !yield(l, nil) {
				return
			}
		}
		if err != nil {
			yield(domain.Listing{}, err)
		}
	}
}
