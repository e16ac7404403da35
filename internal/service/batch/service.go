package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/errors"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

// Summary aggregates the outcome of one scheduled batch run
type Summary struct {
	TotalMatches   int           `json:"total_matches"`
	UsersProcessed int           `json:"users_processed"`
	Failures       int           `json:"failures"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

// Scheduler re-evaluates every active, notification-enabled preference
// against current inventory
type Scheduler interface {
	// RunScheduledBatch runs the full matching pass. Per-preference failures
	// are isolated and counted; they never abort the run.
	RunScheduledBatch(ctx context.Context) (Summary, error)
}

// service implements Scheduler. Each run is atomic from the caller's
// perspective: IDLE -> RUNNING -> IDLE with no intermediate state surviving
// between runs.
type service struct {
	preferences matching.PreferenceRepository
	matcher     matching.MatchingService
	notifier    matching.Notifier
	history     matching.MatchHistoryRepository
	metrics     Metrics
	logger      *slog.Logger
	workers     int
	running     atomic.Bool
	now         func() time.Time
}

// NewScheduler creates a batch scheduler. history may be nil when match
// persistence is not wanted; workers < 1 falls back to sequential.
func NewScheduler(
	preferences matching.PreferenceRepository,
	matcher matching.MatchingService,
	notifier matching.Notifier,
	history matching.MatchHistoryRepository,
	metrics Metrics,
	logger *slog.Logger,
	workers int,
) Scheduler {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}

	return &service{
		preferences: preferences,
		matcher:     matcher,
		notifier:    notifier,
		history:     history,
		metrics:     metrics,
		logger:      logger,
		workers:     workers,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RunScheduledBatch implements Scheduler
func (s *service) RunScheduledBatch(ctx context.Context) (Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Summary{}, errors.NewConflictError("batch run already in progress")
	}
	defer s.running.Store(false)

	start := s.now()
	summary := Summary{StartedAt: start}

	prefs, err := s.preferences.GetActiveWithNotifications(ctx)
	if err != nil {
		return summary, errors.NewExternalError("catalog store", "failed to load active preferences").
			WithCause(err)
	}

	s.logger.InfoContext(ctx, "starting scheduled match run", "preferences", len(prefs), "workers", s.workers)

	type outcome struct {
		matches int
		failed  bool
	}

	outcomes := make([]outcome, len(prefs))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, pref := range prefs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, pref *preference.BuyerPreference) {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := s.processPreference(ctx, pref)
			if err != nil {
				// One buyer's failure must never abort the batch
				s.logger.ErrorContext(ctx, "preference evaluation failed",
					"preference_id", pref.ID,
					"buyer_id", pref.BuyerID,
					"error", err)
				s.metrics.RecordPreferenceFailure(ctx)
				outcomes[i] = outcome{failed: true}
				return
			}
			outcomes[i] = outcome{matches: n}
		}(i, pref)
	}
	wg.Wait()

	for _, o := range outcomes {
		summary.UsersProcessed++
		summary.TotalMatches += o.matches
		if o.failed {
			summary.Failures++
		}
	}
	summary.Duration = s.now().Sub(start)

	s.metrics.RecordBatchRun(ctx, summary)
	s.logger.InfoContext(ctx, "scheduled match run complete",
		"users_processed", summary.UsersProcessed,
		"total_matches", summary.TotalMatches,
		"failures", summary.Failures,
		"duration", summary.Duration)

	return summary, nil
}

// processPreference evaluates one preference and dispatches its notification.
// The last-run timestamp is stamped unconditionally so a poison preference is
// not re-hammered on every run.
func (s *service) processPreference(ctx context.Context, pref *preference.BuyerPreference) (int, error) {
	results, matchErr := s.matcher.FindMatches(ctx, pref)

	if err := s.preferences.UpdateLastRun(ctx, pref.ID, s.now()); err != nil {
		s.logger.WarnContext(ctx, "failed to record last match run",
			"preference_id", pref.ID, "error", err)
	}

	if matchErr != nil {
		return 0, matchErr
	}

	if len(results) > 0 {
		if s.history != nil {
			if err := s.history.RecordResults(ctx, results); err != nil {
				s.logger.WarnContext(ctx, "failed to persist match history",
					"preference_id", pref.ID, "error", err)
			}
		}

		if pref.NotificationEnabled {
			top := results
			if len(top) > 3 {
				top = top[:3]
			}
			s.notifier.NotifyMatches(ctx, pref.BuyerID, summaryMessage(results), top)
		}
	}

	return len(results), nil
}

// summaryMessage builds the buyer-facing digest, phrased by the confidence
// tier of the best match
func summaryMessage(results []*match.Result) string {
	best := results[0]
	switch best.Confidence {
	case match.ConfidenceHigh:
		return fmt.Sprintf("We found %d tickets that are a great fit for you, including a top match at %s.",
			len(results), best.RecommendedPrice)
	case match.ConfidenceMedium:
		return fmt.Sprintf("We found %d tickets that look like a good fit for you.", len(results))
	default:
		return fmt.Sprintf("We found %d tickets that may interest you.", len(results))
	}
}
