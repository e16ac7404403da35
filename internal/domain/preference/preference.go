package preference

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/errors"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

var validate = validator.New()

// BuyerPreference is a buyer's standing matching criteria. Buyers may edit it
// at any time; the engine only ever writes LastMatchRun.
type BuyerPreference struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	BuyerID uuid.UUID `json:"buyer_id" validate:"required"`

	// Targeting
	EventID           *uuid.UUID `json:"event_id,omitempty"`
	EventDate         *time.Time `json:"event_date,omitempty"`
	PreferredSections []string   `json:"preferred_sections,omitempty"`

	// Soft hints, not used for filtering or scoring
	Venue    string   `json:"venue,omitempty"`
	Category string   `json:"category,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// Price bounds
	MaxPrice values.Money  `json:"max_price"`
	MinPrice *values.Money `json:"min_price,omitempty"`

	// Quantity bounds
	MaxQuantity int `json:"max_quantity" validate:"min=1"`
	MinQuantity int `json:"min_quantity" validate:"min=1"`

	// Flags
	InstantBuy          bool `json:"instant_buy"`
	NotificationEnabled bool `json:"notification_enabled"`
	IsActive            bool `json:"is_active"`

	LastMatchRun *time.Time `json:"last_match_run,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewBuyerPreference creates an active preference with defaulted bounds
func NewBuyerPreference(buyerID uuid.UUID, maxPrice values.Money, maxQuantity int) (*BuyerPreference, error) {
	now := time.Now().UTC()
	p := &BuyerPreference{
		ID:                  uuid.New(),
		BuyerID:             buyerID,
		MaxPrice:            maxPrice,
		MaxQuantity:         maxQuantity,
		MinQuantity:         1,
		NotificationEnabled: true,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces the preference invariants: positive max price,
// minPrice <= maxPrice when both present, 1 <= minQuantity <= maxQuantity.
func (p *BuyerPreference) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.NewValidationError("INVALID_PREFERENCE", "preference failed validation").
			WithCause(err)
	}

	if !p.MaxPrice.IsPositive() {
		return errors.NewValidationError("INVALID_MAX_PRICE", "max price must be positive")
	}

	if p.MinPrice != nil {
		if p.MinPrice.IsNegative() {
			return errors.NewValidationError("INVALID_MIN_PRICE", "min price cannot be negative")
		}
		if p.MinPrice.GreaterThan(p.MaxPrice) {
			return errors.NewValidationError("INVALID_PRICE_RANGE", "min price exceeds max price")
		}
	}

	if p.MinQuantity > p.MaxQuantity {
		return errors.NewValidationError("INVALID_QUANTITY_RANGE", "min quantity exceeds max quantity")
	}

	return nil
}

// Deactivate soft-deletes the preference; matching and notifications stop but
// history stays intact
func (p *BuyerPreference) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
}

// Reactivate re-enables matching
func (p *BuyerPreference) Reactivate() {
	p.IsActive = true
	p.UpdatedAt = time.Now().UTC()
}

// RecordMatchRun stamps the last batch evaluation time
func (p *BuyerPreference) RecordMatchRun(ts time.Time) {
	t := ts.UTC()
	p.LastMatchRun = &t
	p.UpdatedAt = t
}

// EffectiveMinQuantity returns the min quantity with its default of 1 applied
func (p *BuyerPreference) EffectiveMinQuantity() int {
	if p.MinQuantity < 1 {
		return 1
	}
	return p.MinQuantity
}
