package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// ListingBuilder builds listing snapshots for tests
type ListingBuilder struct {
	l listing.Listing
}

// NewListingBuilder creates a builder with a well-scored default listing:
// active, affordable, plentiful, from a seasoned five-star seller
func NewListingBuilder() *ListingBuilder {
	now := time.Now().UTC()
	sellerID := uuid.New()

	return &ListingBuilder{
		l: listing.Listing{
			ID:                uuid.New(),
			EventID:           uuid.New(),
			SellerID:          sellerID,
			SectionID:         uuid.New(),
			SectionName:       "A",
			Price:             values.MustNewMoneyFromFloat(80, values.USD),
			AvailableQuantity: 2,
			Status:            listing.StatusActive,
			EventDate:         now.AddDate(0, 1, 0),
			Seller: listing.SellerSnapshot{
				ID:          sellerID,
				Rating:      5,
				TotalSales:  60,
				MemberSince: now.AddDate(-2, 0, 0),
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *ListingBuilder) WithID(id uuid.UUID) *ListingBuilder {
	b.l.ID = id
	return b
}

func (b *ListingBuilder) WithEventID(id uuid.UUID) *ListingBuilder {
	b.l.EventID = id
	return b
}

func (b *ListingBuilder) WithSection(name string) *ListingBuilder {
	b.l.SectionName = name
	return b
}

func (b *ListingBuilder) WithPrice(amount float64) *ListingBuilder {
	b.l.Price = values.MustNewMoneyFromFloat(amount, values.USD)
	return b
}

func (b *ListingBuilder) WithQuantity(qty int) *ListingBuilder {
	b.l.AvailableQuantity = qty
	return b
}

func (b *ListingBuilder) WithStatus(status listing.Status) *ListingBuilder {
	b.l.Status = status
	return b
}

func (b *ListingBuilder) WithEventDate(date time.Time) *ListingBuilder {
	b.l.EventDate = date
	return b
}

func (b *ListingBuilder) WithSeller(rating float64, totalSales int, memberSince time.Time) *ListingBuilder {
	b.l.Seller.Rating = rating
	b.l.Seller.TotalSales = totalSales
	b.l.Seller.MemberSince = memberSince
	return b
}

// Build returns a copy, so one builder can stamp out many listings
func (b *ListingBuilder) Build() *listing.Listing {
	l := b.l
	return &l
}
