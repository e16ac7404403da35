package matching

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/errors"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/testutil/fixtures"
)

func newTestService(t *testing.T, repo ListingRepository) MatchingService {
	t.Helper()

	svc, err := NewService(repo, DefaultPolicy(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return svc
}

func strongSeller(lb *fixtures.ListingBuilder) *fixtures.ListingBuilder {
	return lb.WithSeller(5, 60, time.Now().UTC().AddDate(-2, 0, 0))
}

func TestNewServiceRejectsInvalidPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.Weights.Price = 0.9

	_, err := NewService(new(mockListingRepository), policy, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFindMatchesRanksByScoreDescending(t *testing.T) {
	// All three share section, timing, quantity, and seller factors; only the
	// price factor differs, so the expected order is fully determined.
	best := strongSeller(fixtures.NewListingBuilder().WithPrice(80)).Build()
	good := strongSeller(fixtures.NewListingBuilder().WithPrice(95)).Build()
	fair := strongSeller(fixtures.NewListingBuilder().WithPrice(100)).Build()

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Return([]*listing.Listing{fair, best, good}, nil)

	pref := fixtures.NewPreferenceBuilder().WithMaxPrice(100).WithoutMinPrice().Build()

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, best.ID, results[0].ListingID)
	assert.Equal(t, good.ID, results[1].ListingID)
	assert.Equal(t, fair.ID, results[2].ListingID)

	assert.InDelta(t, 0.895, results[0].Score, 1e-9)
	assert.Equal(t, match.ConfidenceHigh, results[0].Confidence)
	assert.Equal(t, match.ConfidenceMedium, results[1].Confidence)
	assert.Equal(t, match.ConfidenceMedium, results[2].Confidence)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}

	repo.AssertExpectations(t)
}

func TestFindMatchesSkipsUnavailableListings(t *testing.T) {
	sold := strongSeller(fixtures.NewListingBuilder().WithPrice(80)).
		WithStatus(listing.StatusSold).
		Build()
	active := strongSeller(fixtures.NewListingBuilder().WithPrice(80)).Build()

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Return([]*listing.Listing{sold, active}, nil)

	pref := fixtures.NewPreferenceBuilder().WithoutMinPrice().Build()

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, active.ID, results[0].ListingID)
}

func TestFindMatchesDiscardsBelowLowThreshold(t *testing.T) {
	now := time.Now().UTC()

	pref := fixtures.NewPreferenceBuilder().
		WithMaxPrice(100).
		WithMinPrice(50).
		WithSections("Floor").
		WithQuantityRange(2, 4).
		WithEventDate(now.AddDate(0, 2, 0)).
		Build()

	// Under the price floor, wrong section, too few seats, brand new seller,
	// event two months off target: every factor bottoms out.
	weak := fixtures.NewListingBuilder().
		WithPrice(40).
		WithSection("Balcony").
		WithQuantity(1).
		WithEventDate(now).
		WithSeller(0, 0, now).
		Build()

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Return([]*listing.Listing{weak}, nil)

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindMatchesTruncatesToMaxResults(t *testing.T) {
	candidates := make([]*listing.Listing, 0, 12)
	for i := 0; i < 12; i++ {
		candidates = append(candidates, strongSeller(fixtures.NewListingBuilder().WithPrice(80)).Build())
	}

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).Return(candidates, nil)

	pref := fixtures.NewPreferenceBuilder().WithoutMinPrice().Build()

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)
	assert.Len(t, results, DefaultPolicy().MaxResults)
}

func TestFindMatchesTieBreaksOnListingID(t *testing.T) {
	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	first := strongSeller(fixtures.NewListingBuilder().WithID(idB).WithPrice(80)).Build()
	second := strongSeller(fixtures.NewListingBuilder().WithID(idA).WithPrice(80)).Build()

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Return([]*listing.Listing{first, second}, nil)

	pref := fixtures.NewPreferenceBuilder().WithoutMinPrice().Build()

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, idA, results[0].ListingID)
	assert.Equal(t, idB, results[1].ListingID)
}

func TestFindMatchesIsIdempotent(t *testing.T) {
	candidates := []*listing.Listing{
		strongSeller(fixtures.NewListingBuilder().WithPrice(80)).Build(),
		strongSeller(fixtures.NewListingBuilder().WithPrice(95)).Build(),
	}

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).Return(candidates, nil)

	pref := fixtures.NewPreferenceBuilder().WithoutMinPrice().Build()
	svc := newTestService(t, repo)

	first, err := svc.FindMatches(context.Background(), pref)
	require.NoError(t, err)
	second, err := svc.FindMatches(context.Background(), pref)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ListingID, second[i].ListingID)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
	}
}

func TestFindMatchesAutoApproveIsSubsetOfHigh(t *testing.T) {
	high := strongSeller(fixtures.NewListingBuilder().WithPrice(80)).Build()
	medium := strongSeller(fixtures.NewListingBuilder().WithPrice(100)).Build()

	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Return([]*listing.Listing{high, medium}, nil)

	pref := fixtures.NewPreferenceBuilder().WithoutMinPrice().WithInstantBuy(true).Build()

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		if r.AutoApprove {
			assert.Equal(t, match.ConfidenceHigh, r.Confidence)
		}
	}
	assert.True(t, results[0].AutoApprove)
	assert.False(t, results[1].AutoApprove)
}

func TestFindMatchesTranslatesPreferenceIntoFilters(t *testing.T) {
	eventID := uuid.New()

	pref := fixtures.NewPreferenceBuilder().
		WithEventID(eventID).
		WithMaxPrice(100).
		WithMinPrice(50).
		WithSections("Floor", "Pit").
		WithQuantityRange(2, 4).
		Build()

	var captured CandidateFilters
	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(CandidateFilters)
		}).
		Return([]*listing.Listing{}, nil)

	_, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.NoError(t, err)

	require.NotNil(t, captured.EventID)
	assert.Equal(t, eventID, *captured.EventID)
	assert.InDelta(t, 50, captured.MinPrice.ToFloat64(), 1e-9)
	assert.InDelta(t, 100, captured.MaxPrice.ToFloat64(), 1e-9)
	assert.Equal(t, 2, captured.MinQuantity)
	assert.Equal(t, []string{"Floor", "Pit"}, captured.Sections)
	assert.Equal(t, DefaultPolicy().CandidatePoolSize, captured.Limit)
}

func TestFindMatchesInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		pref     func() *fixtures.PreferenceBuilder
		nilPref  bool
		wantType errors.ErrorType
		wantCode string
	}{
		{
			name:     "nil preference",
			nilPref:  true,
			wantType: errors.ErrorTypeValidation,
			wantCode: "MISSING_PREFERENCE",
		},
		{
			name: "min price above max price",
			pref: func() *fixtures.PreferenceBuilder {
				return fixtures.NewPreferenceBuilder().WithMaxPrice(100).WithMinPrice(150)
			},
			wantType: errors.ErrorTypeValidation,
		},
		{
			name: "inactive preference",
			pref: func() *fixtures.PreferenceBuilder {
				return fixtures.NewPreferenceBuilder().Inactive()
			},
			wantType: errors.ErrorTypeBusiness,
			wantCode: "PREFERENCE_INACTIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockListingRepository)
			svc := newTestService(t, repo)

			var results []*match.Result
			var err error
			if tt.nilPref {
				results, err = svc.FindMatches(context.Background(), nil)
			} else {
				results, err = svc.FindMatches(context.Background(), tt.pref().Build())
			}

			require.Error(t, err)
			assert.Nil(t, results)
			assert.True(t, errors.IsType(err, tt.wantType))
			if tt.wantCode != "" {
				var appErr *errors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
			}
			repo.AssertNotCalled(t, "FindCandidates", mock.Anything, mock.Anything)
		})
	}
}

func TestFindMatchesWrapsStoreFailure(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	pref := fixtures.NewPreferenceBuilder().WithoutMinPrice().Build()

	results, err := newTestService(t, repo).FindMatches(context.Background(), pref)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.IsType(err, errors.ErrorTypeExternal))
	assert.True(t, errors.IsRetryable(err))
	assert.ErrorIs(t, err, assert.AnError)
}
