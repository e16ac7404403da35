package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

// PreferenceRepository implements matching.PreferenceRepository using
// PostgreSQL. It is returned concrete because the preference CRUD surface
// (Create) is wider than what the matching engine consumes.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

var _ matching.PreferenceRepository = (*PreferenceRepository)(nil)

// NewPreferenceRepository creates a new buyer preference repository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

const preferenceColumns = `
	id, buyer_id, event_id, event_date, preferred_sections,
	venue, category, keywords,
	max_price, min_price, max_quantity, min_quantity,
	instant_buy, notification_enabled, is_active,
	last_match_run, created_at, updated_at
`

// Create stores a new buyer preference
func (r *PreferenceRepository) Create(ctx context.Context, p *preference.BuyerPreference) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO buyer_preferences (` + preferenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	var minPrice interface{}
	if p.MinPrice != nil {
		minPrice = p.MinPrice.Amount()
	}

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.BuyerID, p.EventID, p.EventDate, p.PreferredSections,
		p.Venue, p.Category, p.Keywords,
		p.MaxPrice.Amount(), minPrice, p.MaxQuantity, p.MinQuantity,
		p.InstantBuy, p.NotificationEnabled, p.IsActive,
		p.LastMatchRun, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if IsDuplicateKeyViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create preference: %w", err)
	}

	return nil
}

// GetByID retrieves a preference by ID
func (r *PreferenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*preference.BuyerPreference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM buyer_preferences WHERE id = $1`

	p, err := scanPreference(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	return p, nil
}

// GetActiveWithNotifications returns the preferences a batch run evaluates
func (r *PreferenceRepository) GetActiveWithNotifications(ctx context.Context) ([]*preference.BuyerPreference, error) {
	query := `
		SELECT ` + preferenceColumns + `
		FROM buyer_preferences
		WHERE is_active = true AND notification_enabled = true
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*preference.BuyerPreference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active preferences: %w", err)
	}

	return prefs, nil
}

// UpdateLastRun stamps the preference's last batch evaluation time
func (r *PreferenceRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, ts time.Time) error {
	query := `
		UPDATE buyer_preferences
		SET last_match_run = $2, updated_at = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, ts.UTC())
	if err != nil {
		return fmt.Errorf("failed to update last match run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreference(row rowScanner) (*preference.BuyerPreference, error) {
	var p preference.BuyerPreference
	var minPrice *values.Money

	err := row.Scan(
		&p.ID, &p.BuyerID, &p.EventID, &p.EventDate, &p.PreferredSections,
		&p.Venue, &p.Category, &p.Keywords,
		&p.MaxPrice, &minPrice, &p.MaxQuantity, &p.MinQuantity,
		&p.InstantBuy, &p.NotificationEnabled, &p.IsActive,
		&p.LastMatchRun, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.MinPrice = minPrice
	return &p, nil
}
