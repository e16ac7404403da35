package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
)

// MatchingService ranks current inventory against a buyer's preference
type MatchingService interface {
	// FindMatches returns the ranked top matches for a preference. An empty
	// slice is a valid non-error result.
	FindMatches(ctx context.Context, pref *preference.BuyerPreference) ([]*match.Result, error)
}

// Notifier delivers match summaries to buyers. Delivery is fire-and-forget:
// the engine neither blocks on nor retries failures.
type Notifier interface {
	NotifyMatches(ctx context.Context, buyerID uuid.UUID, message string, results []*match.Result)
}

// RankerMetrics tracks ranking outcomes for observability
type RankerMetrics interface {
	// RecordEvaluation records one FindMatches invocation
	RecordEvaluation(ctx context.Context, buyerID uuid.UUID, candidates, matches int, latency time.Duration)

	// RecordTier counts an emitted match by confidence tier
	RecordTier(ctx context.Context, tier match.ConfidenceTier)

	// RecordAutoApproveEligible counts matches that may skip manual review
	RecordAutoApproveEligible(ctx context.Context)
}
