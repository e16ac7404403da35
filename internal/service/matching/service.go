package matching

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/errors"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// service implements the MatchingService interface.
// It orchestrates candidate selection, scoring, classification, and ranking
// for a single buyer preference. The service holds no mutable state between
// invocations and is safe for concurrent use.
type service struct {
	listings ListingRepository
	policy   Policy
	metrics  RankerMetrics
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewService creates a matching service with the given scoring policy
func NewService(listings ListingRepository, policy Policy, metrics RankerMetrics, logger *slog.Logger) (MatchingService, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		listings: listings,
		policy:   policy,
		metrics:  metrics,
		logger:   logger,
		tracer:   otel.Tracer("matching"),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// FindMatches scores every eligible listing against the preference and
// returns the ranked top matches
func (s *service) FindMatches(ctx context.Context, pref *preference.BuyerPreference) ([]*match.Result, error) {
	start := s.now()

	ctx, span := s.tracer.Start(ctx, "matching.FindMatches")
	defer span.End()

	if pref == nil {
		return nil, errors.NewValidationError("MISSING_PREFERENCE", "preference is required")
	}
	if err := pref.Validate(); err != nil {
		return nil, err
	}
	if !pref.IsActive {
		// Fresh error instance: WithDetails mutates, and the sentinel is shared
		return nil, errors.NewBusinessError("PREFERENCE_INACTIVE", "Preference is deactivated").
			WithDetails(map[string]interface{}{"preference_id": pref.ID})
	}

	span.SetAttributes(attribute.String("buyer_id", pref.BuyerID.String()))

	candidates, err := s.listings.FindCandidates(ctx, s.candidateFilters(pref))
	if err != nil {
		return nil, errors.NewExternalError("catalog store", "candidate lookup failed").
			WithCause(err).
			WithDetails(map[string]interface{}{"preference_id": pref.ID})
	}

	now := s.now()
	results := make([]*match.Result, 0, len(candidates))

	for _, l := range candidates {
		// Guard against stale pool entries (e.g. a cached pool fetched just
		// before the listing sold out)
		if !l.IsAvailable() {
			continue
		}

		criteria := ScoreCandidate(l, pref, s.policy.Weights, now)

		tier := s.policy.ClassifyConfidence(criteria.OverallScore)
		if tier == match.ConfidenceNone {
			continue
		}

		result := &match.Result{
			ListingID:        l.ID,
			SellerID:         l.SellerID,
			BuyerID:          pref.BuyerID,
			EventID:          l.EventID,
			Score:            criteria.OverallScore,
			Criteria:         criteria,
			Confidence:       tier,
			RecommendedPrice: s.policy.recommendedPrice(l, pref, tier),
			Reasons:          buildReasons(l, criteria),
			AutoApprove:      s.policy.autoApproveEligible(pref, criteria),
			EvaluatedAt:      now,
		}
		results = append(results, result)
	}

	// Rank by overall score descending. The reference behavior leaves exact
	// ties unordered; listing ID ascending is used as the deterministic
	// secondary key so identical inputs always produce identical output.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ListingID.String() < results[j].ListingID.String()
	})

	if len(results) > s.policy.MaxResults {
		results = results[:s.policy.MaxResults]
	}

	for _, r := range results {
		s.metrics.RecordTier(ctx, r.Confidence)
		if r.AutoApprove {
			s.metrics.RecordAutoApproveEligible(ctx)
		}
	}
	s.metrics.RecordEvaluation(ctx, pref.BuyerID, len(candidates), len(results), s.now().Sub(start))

	s.logger.DebugContext(ctx, "ranked matches for preference",
		"preference_id", pref.ID,
		"buyer_id", pref.BuyerID,
		"candidates", len(candidates),
		"matches", len(results))

	return results, nil
}

// candidateFilters translates the preference into the store's hard filters
func (s *service) candidateFilters(pref *preference.BuyerPreference) CandidateFilters {
	minPrice := values.Zero(pref.MaxPrice.Currency())
	if pref.MinPrice != nil {
		minPrice = *pref.MinPrice
	}

	return CandidateFilters{
		EventID:     pref.EventID,
		MinPrice:    minPrice,
		MaxPrice:    pref.MaxPrice,
		MinQuantity: pref.EffectiveMinQuantity(),
		Sections:    pref.PreferredSections,
		Limit:       s.policy.CandidatePoolSize,
	}
}
