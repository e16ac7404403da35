package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

// matchHistoryRepository implements matching.MatchHistoryRepository using
// PostgreSQL. History is append-only; the engine itself never reads it back.
type matchHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewMatchHistoryRepository creates a new match history repository
func NewMatchHistoryRepository(pool *pgxpool.Pool) matching.MatchHistoryRepository {
	return &matchHistoryRepository{pool: pool}
}

// RecordResults persists a batch of ranked results in one round trip
func (r *matchHistoryRepository) RecordResults(ctx context.Context, results []*match.Result) error {
	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO match_history (
			id, listing_id, seller_id, buyer_id, event_id,
			score, criteria, confidence, recommended_price, reasons,
			auto_approve, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, res := range results {
		criteriaJSON, err := json.Marshal(res.Criteria)
		if err != nil {
			return fmt.Errorf("failed to marshal match criteria: %w", err)
		}

		batch.Queue(query,
			uuid.New(), res.ListingID, res.SellerID, res.BuyerID, res.EventID,
			res.Score, criteriaJSON, res.Confidence.String(), res.RecommendedPrice.Amount(), res.Reasons,
			res.AutoApprove, res.EvaluatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to record match history: %w", err)
		}
	}

	return nil
}
