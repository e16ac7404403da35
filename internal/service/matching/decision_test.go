package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/testutil/fixtures"
)

func TestAutoApproveEligible(t *testing.T) {
	policy := DefaultPolicy()

	strong := match.Criteria{
		PriceScore:   0.95,
		SellerScore:  0.9,
		OverallScore: 0.9,
	}

	tests := []struct {
		name       string
		instantBuy bool
		mutate     func(*match.Criteria)
		expected   bool
	}{
		{
			name:       "all conditions met",
			instantBuy: true,
			mutate:     func(*match.Criteria) {},
			expected:   true,
		},
		{
			name:       "instant buy disabled blocks approval",
			instantBuy: false,
			mutate:     func(*match.Criteria) {},
			expected:   false,
		},
		{
			name:       "overall below high tier blocks approval",
			instantBuy: true,
			mutate:     func(c *match.Criteria) { c.OverallScore = 0.84 },
			expected:   false,
		},
		{
			name:       "weak price factor blocks approval",
			instantBuy: true,
			mutate:     func(c *match.Criteria) { c.PriceScore = 0.89 },
			expected:   false,
		},
		{
			name:       "weak seller factor blocks approval",
			instantBuy: true,
			mutate:     func(c *match.Criteria) { c.SellerScore = 0.79 },
			expected:   false,
		},
		{
			name:       "factor floors are inclusive",
			instantBuy: true,
			mutate: func(c *match.Criteria) {
				c.OverallScore = 0.85
				c.PriceScore = 0.9
				c.SellerScore = 0.8
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pref := fixtures.NewPreferenceBuilder().WithInstantBuy(tt.instantBuy).Build()
			c := strong
			tt.mutate(&c)

			assert.Equal(t, tt.expected, policy.autoApproveEligible(pref, c))
		})
	}
}

func TestRecommendedPrice(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		price    float64
		minPrice *float64
		tier     match.ConfidenceTier
		expected float64
	}{
		{
			name:     "high confidence keeps the listing price",
			price:    80,
			tier:     match.ConfidenceHigh,
			expected: 80,
		},
		{
			name:     "medium confidence suggests a five percent discount",
			price:    100,
			tier:     match.ConfidenceMedium,
			expected: 95,
		},
		{
			name:     "medium discount never undercuts the buyer's floor",
			price:    100,
			minPrice: floatPtr(98),
			tier:     match.ConfidenceMedium,
			expected: 98,
		},
		{
			name:     "medium fallback floor is eighty percent of list",
			price:    100,
			tier:     match.ConfidenceMedium,
			expected: 95,
		},
		{
			name:     "low confidence suggests a ten percent discount",
			price:    100,
			tier:     match.ConfidenceLow,
			expected: 90,
		},
		{
			name:     "low discount floored at the buyer's minimum",
			price:    100,
			minPrice: floatPtr(94),
			tier:     match.ConfidenceLow,
			expected: 94,
		},
		{
			name:     "discount rounds to the nearest cent",
			price:    33.33,
			tier:     match.ConfidenceMedium,
			expected: 31.66,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefBuilder := fixtures.NewPreferenceBuilder().WithMaxPrice(200).WithoutMinPrice()
			if tt.minPrice != nil {
				prefBuilder = prefBuilder.WithMinPrice(*tt.minPrice)
			}
			pref := prefBuilder.Build()
			l := fixtures.NewListingBuilder().WithPrice(tt.price).Build()

			got := policy.recommendedPrice(l, pref, tt.tier)
			assert.InDelta(t, tt.expected, got.ToFloat64(), 1e-9)
		})
	}
}

func TestBuildReasonsOrderAndContent(t *testing.T) {
	now := time.Now().UTC()

	pref := fixtures.NewPreferenceBuilder().
		WithMaxPrice(100).
		WithoutMinPrice().
		WithSections("Floor").
		WithQuantityRange(1, 2).
		WithEventDate(now.AddDate(0, 1, 0)).
		Build()

	l := fixtures.NewListingBuilder().
		WithPrice(80).
		WithSection("Floor").
		WithQuantity(2).
		WithEventDate(now.AddDate(0, 1, 0)).
		WithSeller(4.8, 60, now.AddDate(-2, 0, 0)).
		Build()

	c := ScoreCandidate(l, pref, DefaultPolicy().Weights, now)
	reasons := buildReasons(l, c)

	require.Len(t, reasons, 6)
	assert.Contains(t, reasons[0], "Great price")
	assert.Contains(t, reasons[1], "preferred sections")
	assert.Contains(t, reasons[2], "tickets available")
	assert.Contains(t, reasons[3], "Highly rated seller")
	assert.Contains(t, reasons[4], "Event date lines up")
	assert.Contains(t, reasons[5], "completed sales")
}

func TestBuildReasonsFairPriceVariant(t *testing.T) {
	now := time.Now().UTC()

	pref := fixtures.NewPreferenceBuilder().WithMaxPrice(100).WithoutMinPrice().Build()
	l := fixtures.NewListingBuilder().
		WithPrice(100).
		WithQuantity(1).
		WithSeller(2, 0, now).
		Build()

	c := ScoreCandidate(l, pref, DefaultPolicy().Weights, now)
	reasons := buildReasons(l, c)

	require.NotEmpty(t, reasons)
	assert.Contains(t, reasons[0], "Fair price")
	for _, r := range reasons {
		assert.NotContains(t, r, "Great price")
	}
}

func TestBuildReasonsEmptyWhenNothingStandsOut(t *testing.T) {
	now := time.Now().UTC()

	pref := fixtures.NewPreferenceBuilder().
		WithMaxPrice(100).
		WithMinPrice(99).
		WithSections("Floor").
		WithQuantityRange(2, 4).
		WithEventDate(now.AddDate(0, 2, 0)).
		Build()

	l := fixtures.NewListingBuilder().
		WithPrice(98).
		WithSection("Balcony").
		WithQuantity(1).
		WithEventDate(now).
		WithSeller(1, 3, now).
		Build()

	c := ScoreCandidate(l, pref, DefaultPolicy().Weights, now)
	assert.Empty(t, buildReasons(l, c))
}
