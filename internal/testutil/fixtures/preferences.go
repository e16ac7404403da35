package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// PreferenceBuilder builds buyer preferences for tests
type PreferenceBuilder struct {
	p preference.BuyerPreference
}

// NewPreferenceBuilder creates a builder with the canonical test preference:
// budget 50-100, wants up to 2 tickets, active with notifications on
func NewPreferenceBuilder() *PreferenceBuilder {
	now := time.Now().UTC()
	minPrice := values.MustNewMoneyFromFloat(50, values.USD)

	return &PreferenceBuilder{
		p: preference.BuyerPreference{
			ID:                  uuid.New(),
			BuyerID:             uuid.New(),
			MaxPrice:            values.MustNewMoneyFromFloat(100, values.USD),
			MinPrice:            &minPrice,
			MaxQuantity:         2,
			MinQuantity:         1,
			NotificationEnabled: true,
			IsActive:            true,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
	}
}

func (b *PreferenceBuilder) WithID(id uuid.UUID) *PreferenceBuilder {
	b.p.ID = id
	return b
}

func (b *PreferenceBuilder) WithBuyerID(id uuid.UUID) *PreferenceBuilder {
	b.p.BuyerID = id
	return b
}

func (b *PreferenceBuilder) WithEventID(id uuid.UUID) *PreferenceBuilder {
	b.p.EventID = &id
	return b
}

func (b *PreferenceBuilder) WithEventDate(date time.Time) *PreferenceBuilder {
	b.p.EventDate = &date
	return b
}

func (b *PreferenceBuilder) WithSections(sections ...string) *PreferenceBuilder {
	b.p.PreferredSections = sections
	return b
}

func (b *PreferenceBuilder) WithMaxPrice(amount float64) *PreferenceBuilder {
	b.p.MaxPrice = values.MustNewMoneyFromFloat(amount, values.USD)
	return b
}

func (b *PreferenceBuilder) WithMinPrice(amount float64) *PreferenceBuilder {
	m := values.MustNewMoneyFromFloat(amount, values.USD)
	b.p.MinPrice = &m
	return b
}

func (b *PreferenceBuilder) WithoutMinPrice() *PreferenceBuilder {
	b.p.MinPrice = nil
	return b
}

func (b *PreferenceBuilder) WithQuantityRange(min, max int) *PreferenceBuilder {
	b.p.MinQuantity = min
	b.p.MaxQuantity = max
	return b
}

func (b *PreferenceBuilder) WithInstantBuy(enabled bool) *PreferenceBuilder {
	b.p.InstantBuy = enabled
	return b
}

func (b *PreferenceBuilder) WithNotifications(enabled bool) *PreferenceBuilder {
	b.p.NotificationEnabled = enabled
	return b
}

func (b *PreferenceBuilder) Inactive() *PreferenceBuilder {
	b.p.IsActive = false
	return b
}

// Build returns a copy, so one builder can stamp out many preferences
func (b *PreferenceBuilder) Build() *preference.BuyerPreference {
	p := b.p
	return &p
}
