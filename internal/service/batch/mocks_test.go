package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
)

type mockPreferenceRepository struct {
	mock.Mock
}

func (m *mockPreferenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*preference.BuyerPreference, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*preference.BuyerPreference), args.Error(1)
}

func (m *mockPreferenceRepository) GetActiveWithNotifications(ctx context.Context) ([]*preference.BuyerPreference, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*preference.BuyerPreference), args.Error(1)
}

func (m *mockPreferenceRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, ts time.Time) error {
	args := m.Called(ctx, id, ts)
	return args.Error(0)
}

type mockMatchingService struct {
	mock.Mock
}

func (m *mockMatchingService) FindMatches(ctx context.Context, pref *preference.BuyerPreference) ([]*match.Result, error) {
	args := m.Called(ctx, pref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*match.Result), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyMatches(ctx context.Context, buyerID uuid.UUID, message string, results []*match.Result) {
	m.Called(ctx, buyerID, message, results)
}

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) RecordResults(ctx context.Context, results []*match.Result) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}
