package batch

import "context"

// Metrics tracks batch run outcomes
type Metrics interface {
	RecordBatchRun(ctx context.Context, summary Summary)
	RecordPreferenceFailure(ctx context.Context)
}

// metricsNoop is a no-op implementation of Metrics
type metricsNoop struct{}

// NewNoopMetrics creates a no-op metrics implementation
func NewNoopMetrics() Metrics {
	return &metricsNoop{}
}

func (m *metricsNoop) RecordBatchRun(ctx context.Context, summary Summary) {}

func (m *metricsNoop) RecordPreferenceFailure(ctx context.Context) {}
