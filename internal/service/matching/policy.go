package matching

import (
	"math"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/errors"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
)

// Weights combines the five factor scores into one overall score. The weights
// are marketplace configuration, not buyer-tunable, and the ranking order is
// only reproducible when they match production exactly.
type Weights struct {
	Price    float64 `json:"price" koanf:"price"`
	Section  float64 `json:"section" koanf:"section"`
	Quantity float64 `json:"quantity" koanf:"quantity"`
	Timing   float64 `json:"timing" koanf:"timing"`
	Seller   float64 `json:"seller" koanf:"seller"`
}

// Combine returns the dot product of the factor scores and the weights
func (w Weights) Combine(c match.Criteria) float64 {
	return c.PriceScore*w.Price +
		c.SectionScore*w.Section +
		c.QuantityScore*w.Quantity +
		c.TimingScore*w.Timing +
		c.SellerScore*w.Seller
}

// Sum returns the weight total, expected to be 1.0
func (w Weights) Sum() float64 {
	return w.Price + w.Section + w.Quantity + w.Timing + w.Seller
}

// Thresholds are the confidence tier cut-offs on the overall score.
// Comparisons are inclusive: a score exactly at a boundary takes the higher
// tier.
type Thresholds struct {
	High   float64 `json:"high" koanf:"high"`
	Medium float64 `json:"medium" koanf:"medium"`
	Low    float64 `json:"low" koanf:"low"`
}

// Policy is the immutable configuration injected into the ranking engine
type Policy struct {
	Weights    Weights    `json:"weights" koanf:"weights"`
	Thresholds Thresholds `json:"thresholds" koanf:"thresholds"`

	// CandidatePoolSize bounds the store query for predictable work per request
	CandidatePoolSize int `json:"candidate_pool_size" koanf:"candidate_pool_size"`
	// MaxResults truncates the ranked output
	MaxResults int `json:"max_results" koanf:"max_results"`

	// Auto-approval factor floors, on top of instant-buy and the HIGH tier
	AutoApproveMinPriceScore  float64 `json:"auto_approve_min_price_score" koanf:"auto_approve_min_price_score"`
	AutoApproveMinSellerScore float64 `json:"auto_approve_min_seller_score" koanf:"auto_approve_min_seller_score"`
}

// DefaultPolicy returns the production scoring policy
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Price:    0.35,
			Section:  0.25,
			Quantity: 0.20,
			Timing:   0.10,
			Seller:   0.10,
		},
		Thresholds: Thresholds{
			High:   0.85,
			Medium: 0.65,
			Low:    0.45,
		},
		CandidatePoolSize:         50,
		MaxResults:                10,
		AutoApproveMinPriceScore:  0.9,
		AutoApproveMinSellerScore: 0.8,
	}
}

// Validate rejects policies that would produce unnormalized or unordered scores
func (p Policy) Validate() error {
	if math.Abs(p.Weights.Sum()-1.0) > 1e-9 {
		return errors.NewValidationError("INVALID_WEIGHTS", "scoring weights must sum to 1.0")
	}
	if !(p.Thresholds.Low > 0 && p.Thresholds.Low <= p.Thresholds.Medium && p.Thresholds.Medium <= p.Thresholds.High && p.Thresholds.High <= 1) {
		return errors.NewValidationError("INVALID_THRESHOLDS", "confidence thresholds must satisfy 0 < low <= medium <= high <= 1")
	}
	if p.CandidatePoolSize <= 0 {
		return errors.NewValidationError("INVALID_POOL_SIZE", "candidate pool size must be positive")
	}
	if p.MaxResults <= 0 {
		return errors.NewValidationError("INVALID_MAX_RESULTS", "max results must be positive")
	}
	return nil
}

// ClassifyConfidence maps an overall score to its tier. ConfidenceNone means
// the candidate is discarded, not labeled.
func (p Policy) ClassifyConfidence(score float64) match.ConfidenceTier {
	switch {
	case score >= p.Thresholds.High:
		return match.ConfidenceHigh
	case score >= p.Thresholds.Medium:
		return match.ConfidenceMedium
	case score >= p.Thresholds.Low:
		return match.ConfidenceLow
	default:
		return match.ConfidenceNone
	}
}
