package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

// noopNotifier discards notifications, for callers that run the engine
// without a delivery backend
type noopNotifier struct{}

// NewNoopNotifier creates a notifier that drops everything
func NewNoopNotifier() matching.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyMatches(ctx context.Context, buyerID uuid.UUID, message string, results []*match.Result) {
}
