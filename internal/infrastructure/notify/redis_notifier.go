package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

const matchChannel = "notifications:matches"

// matchEvent is the wire payload published for downstream delivery workers
// (email, push) to fan out
type matchEvent struct {
	BuyerID   uuid.UUID       `json:"buyer_id"`
	Message   string          `json:"message"`
	Matches   []*match.Result `json:"matches"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// redisNotifier publishes match summaries to a Redis channel. Publication is
// fire-and-forget: failures are logged and dropped, never retried, and the
// engine never blocks beyond the rate limiter.
type redisNotifier struct {
	client  *redis.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRedisNotifier creates a pub/sub backed notifier. ratePerSecond caps how
// fast a batch run may emit; zero disables limiting.
func NewRedisNotifier(client *redis.Client, ratePerSecond float64, burst int, logger *zap.Logger) matching.Notifier {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}

	return &redisNotifier{
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

// NotifyMatches implements matching.Notifier
func (n *redisNotifier) NotifyMatches(ctx context.Context, buyerID uuid.UUID, message string, results []*match.Result) {
	if len(results) == 0 {
		return
	}

	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			n.logger.Warn("notification dropped, rate limiter interrupted",
				zap.String("buyer_id", buyerID.String()), zap.Error(err))
			return
		}
	}

	payload, err := json.Marshal(matchEvent{
		BuyerID:   buyerID,
		Message:   message,
		Matches:   results,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		n.logger.Error("failed to encode match notification",
			zap.String("buyer_id", buyerID.String()), zap.Error(err))
		return
	}

	if err := n.client.Publish(ctx, matchChannel, payload).Err(); err != nil {
		n.logger.Warn("failed to publish match notification",
			zap.String("buyer_id", buyerID.String()), zap.Error(err))
	}
}
