package matching

import (
	"fmt"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// autoApproveEligible decides whether a match may bypass manual buyer review.
// All four conditions are mandatory, which makes eligibility a strict subset
// of HIGH confidence.
func (p Policy) autoApproveEligible(pref *preference.BuyerPreference, c match.Criteria) bool {
	return pref.InstantBuy &&
		c.OverallScore >= p.Thresholds.High &&
		c.PriceScore >= p.AutoApproveMinPriceScore &&
		c.SellerScore >= p.AutoApproveMinSellerScore
}

// recommendedPrice derives a suggested transaction price. HIGH-confidence
// matches are offered at the listing price with no negotiation room; lower
// tiers suggest a small discount, floored at the buyer's stated minimum.
func (p Policy) recommendedPrice(l *listing.Listing, pref *preference.BuyerPreference, tier match.ConfidenceTier) values.Money {
	switch tier {
	case match.ConfidenceHigh:
		return l.Price
	case match.ConfidenceMedium:
		return maxMoney(l.Price.MulFloat(0.95), priceFloor(pref, l, 0.8)).RoundToNearestCent()
	default:
		return maxMoney(l.Price.MulFloat(0.90), priceFloor(pref, l, 0.7)).RoundToNearestCent()
	}
}

// priceFloor is the buyer's stated minimum when present, otherwise a fraction
// of the listing price.
func priceFloor(pref *preference.BuyerPreference, l *listing.Listing, fallbackFactor float64) values.Money {
	if pref.MinPrice != nil {
		return *pref.MinPrice
	}
	return l.Price.MulFloat(fallbackFactor)
}

func maxMoney(a, b values.Money) values.Money {
	if b.GreaterThan(a) {
		return b
	}
	return a
}

// buildReasons produces the display justifications for a match. The order is
// fixed: price, section, quantity, seller rating, timing, experienced seller.
// Reasons are presentational only and never affect ranking.
func buildReasons(l *listing.Listing, c match.Criteria) []string {
	reasons := make([]string, 0, 6)

	if c.PriceScore >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Great price at %s, well within your budget", l.Price))
	} else if c.PriceScore >= 0.6 {
		reasons = append(reasons, fmt.Sprintf("Fair price at %s for this event", l.Price))
	}

	if c.SectionScore >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Seats in %s, one of your preferred sections", l.SectionName))
	}

	if c.QuantityScore >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("%d tickets available, enough for your group", l.AvailableQuantity))
	}

	if c.SellerScore >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Highly rated seller (%.1f/5)", l.Seller.Rating))
	}

	if c.TimingScore >= 0.8 {
		reasons = append(reasons, "Event date lines up with when you want to go")
	}

	if l.Seller.TotalSales >= 20 {
		reasons = append(reasons, fmt.Sprintf("Experienced seller with %d completed sales", l.Seller.TotalSales))
	}

	return reasons
}
