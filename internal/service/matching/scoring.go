package matching

import (
	"math"
	"strings"
	"time"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
)

// Scoring functions. Each maps a (listing, preference) pair to a factor in
// [0,1], is pure, and never touches engine state, so they are safe to run in
// parallel across candidates.

// PriceFitScore rates how well the listing price sits inside the buyer's
// budget. The sweet spot is 70-90% of the buyer's max: squarely affordable
// without looking like a dump.
func PriceFitScore(l *listing.Listing, p *preference.BuyerPreference) float64 {
	price := l.Price.ToFloat64()
	maxPrice := p.MaxPrice.ToFloat64()

	if price > maxPrice {
		return 0
	}

	// Under the buyer's stated floor: still acceptable, flagged by the
	// reduced score as under-asked
	if p.MinPrice != nil && price < p.MinPrice.ToFloat64() {
		return 0.5
	}

	bandLow := maxPrice * 0.70
	bandHigh := maxPrice * 0.90

	switch {
	case price >= bandLow && price <= bandHigh:
		return 1.0
	case price < bandLow:
		if bandLow == 0 {
			return 1.0
		}
		return 0.8 + (price/bandLow)*0.2
	default:
		return 1.0 - ((price-bandHigh)/(maxPrice-bandHigh))*0.4
	}
}

// SectionFitScore rates the listing's section against the buyer's preferred
// sections. Exact match beats a partial (substring) match; no stated
// preference scores neutral.
func SectionFitScore(l *listing.Listing, p *preference.BuyerPreference) float64 {
	if len(p.PreferredSections) == 0 {
		return 0.7
	}

	name := strings.ToLower(strings.TrimSpace(l.SectionName))
	for _, preferred := range p.PreferredSections {
		want := strings.ToLower(strings.TrimSpace(preferred))
		if name == want {
			return 1.0
		}
	}

	for _, preferred := range p.PreferredSections {
		want := strings.ToLower(strings.TrimSpace(preferred))
		if want == "" {
			continue
		}
		if strings.Contains(name, want) || strings.Contains(want, name) {
			return 0.8
		}
	}

	return 0.3
}

// QuantityFitScore rates whether the listing can satisfy the buyer's desired
// ticket count.
func QuantityFitScore(l *listing.Listing, p *preference.BuyerPreference) float64 {
	available := l.AvailableQuantity

	if available >= p.MaxQuantity {
		return 1.0
	}
	if available >= p.EffectiveMinQuantity() {
		return 0.6 + (float64(available)/float64(p.MaxQuantity))*0.4
	}
	return 0.2
}

// TimingFitScore rates the listing's event date against the buyer's target
// date, in whole-day buckets. No target date scores neutral.
func TimingFitScore(l *listing.Listing, p *preference.BuyerPreference) float64 {
	if p.EventDate == nil {
		return 0.7
	}

	diff := l.EventDate.Sub(*p.EventDate)
	days := int(math.Abs(diff.Hours()) / 24)

	switch {
	case days == 0:
		return 1.0
	case days <= 1:
		return 0.9
	case days <= 7:
		return 0.7
	case days <= 30:
		return 0.5
	default:
		return 0.2
	}
}

// SellerTrustScore rates the seller snapshot: half the score is a baseline,
// the rest accrues from rating, completed sales, and account tenure.
func SellerTrustScore(l *listing.Listing, now time.Time) float64 {
	score := 0.5

	score += (l.Seller.Rating / 5.0) * 0.3

	switch sales := l.Seller.TotalSales; {
	case sales >= 50:
		score += 0.2
	case sales >= 20:
		score += 0.15
	case sales >= 10:
		score += 0.1
	case sales >= 5:
		score += 0.05
	}

	switch months := l.Seller.AccountAgeMonths(now); {
	case months >= 12:
		score += 0.2
	case months >= 6:
		score += 0.15
	case months >= 3:
		score += 0.1
	case months >= 1:
		score += 0.05
	}

	return math.Min(score, 1.0)
}

// ScoreCandidate evaluates all five factors and combines them under the
// policy's weights.
func ScoreCandidate(l *listing.Listing, p *preference.BuyerPreference, w Weights, now time.Time) match.Criteria {
	c := match.Criteria{
		PriceScore:    PriceFitScore(l, p),
		SectionScore:  SectionFitScore(l, p),
		QuantityScore: QuantityFitScore(l, p),
		TimingScore:   TimingFitScore(l, p),
		SellerScore:   SellerTrustScore(l, now),
	}
	c.OverallScore = w.Combine(c)
	return c
}
