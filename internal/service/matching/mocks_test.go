package matching

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
)

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) FindCandidates(ctx context.Context, filters CandidateFilters) ([]*listing.Listing, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}
