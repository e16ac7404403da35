package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
)

// metricsNoop is a no-op implementation of RankerMetrics
type metricsNoop struct{}

// NewNoopMetrics creates a no-op metrics implementation
func NewNoopMetrics() RankerMetrics {
	return &metricsNoop{}
}

func (m *metricsNoop) RecordEvaluation(ctx context.Context, buyerID uuid.UUID, candidates, matches int, latency time.Duration) {
}

func (m *metricsNoop) RecordTier(ctx context.Context, tier match.ConfidenceTier) {}

func (m *metricsNoop) RecordAutoApproveEligible(ctx context.Context) {}
