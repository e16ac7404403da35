package instrumentation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/batch"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

// PrometheusMetrics implements matching.RankerMetrics and batch.Metrics on a
// Prometheus registry
type PrometheusMetrics struct {
	evaluations        prometheus.Counter
	evaluationLatency  prometheus.Histogram
	candidatesScanned  prometheus.Counter
	matchesEmitted     prometheus.Counter
	matchesByTier      *prometheus.CounterVec
	autoApproveMatches prometheus.Counter

	batchRuns          prometheus.Counter
	batchDuration      prometheus.Histogram
	batchUsers         prometheus.Counter
	preferenceFailures prometheus.Counter
}

var (
	_ matching.RankerMetrics = (*PrometheusMetrics)(nil)
	_ batch.Metrics          = (*PrometheusMetrics)(nil)
)

// NewPrometheusMetrics registers all matching metrics on the given registerer
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_evaluations_total",
			Help: "Number of FindMatches invocations",
		}),
		evaluationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matching_evaluation_duration_seconds",
			Help:    "Latency of a single preference evaluation",
			Buckets: prometheus.DefBuckets,
		}),
		candidatesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_candidates_scanned_total",
			Help: "Listings that entered a candidate pool",
		}),
		matchesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_matches_emitted_total",
			Help: "Matches returned to callers after ranking",
		}),
		matchesByTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matching_matches_by_tier_total",
			Help: "Emitted matches by confidence tier",
		}, []string{"tier"}),
		autoApproveMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_auto_approve_eligible_total",
			Help: "Matches eligible to skip manual buyer review",
		}),
		batchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_batch_runs_total",
			Help: "Completed scheduled batch runs",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matching_batch_duration_seconds",
			Help:    "Wall-clock duration of a scheduled batch run",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		batchUsers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_batch_users_processed_total",
			Help: "Preferences evaluated across batch runs",
		}),
		preferenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_batch_preference_failures_total",
			Help: "Per-preference failures isolated during batch runs",
		}),
	}

	reg.MustRegister(
		m.evaluations, m.evaluationLatency, m.candidatesScanned,
		m.matchesEmitted, m.matchesByTier, m.autoApproveMatches,
		m.batchRuns, m.batchDuration, m.batchUsers, m.preferenceFailures,
	)

	return m
}

// RecordEvaluation implements matching.RankerMetrics
func (m *PrometheusMetrics) RecordEvaluation(ctx context.Context, buyerID uuid.UUID, candidates, matches int, latency time.Duration) {
	m.evaluations.Inc()
	m.evaluationLatency.Observe(latency.Seconds())
	m.candidatesScanned.Add(float64(candidates))
	m.matchesEmitted.Add(float64(matches))
}

// RecordTier implements matching.RankerMetrics
func (m *PrometheusMetrics) RecordTier(ctx context.Context, tier match.ConfidenceTier) {
	m.matchesByTier.WithLabelValues(tier.String()).Inc()
}

// RecordAutoApproveEligible implements matching.RankerMetrics
func (m *PrometheusMetrics) RecordAutoApproveEligible(ctx context.Context) {
	m.autoApproveMatches.Inc()
}

// RecordBatchRun implements batch.Metrics
func (m *PrometheusMetrics) RecordBatchRun(ctx context.Context, summary batch.Summary) {
	m.batchRuns.Inc()
	m.batchDuration.Observe(summary.Duration.Seconds())
	m.batchUsers.Add(float64(summary.UsersProcessed))
}

// RecordPreferenceFailure implements batch.Metrics
func (m *PrometheusMetrics) RecordPreferenceFailure(ctx context.Context) {
	m.preferenceFailures.Inc()
}
