package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// Listing is sale-side inventory. The matching engine treats listings as
// read-only snapshots; all mutation (status transitions, quantity decrements,
// payment capture) belongs to the selling and order subsystems.
type Listing struct {
	ID       uuid.UUID `json:"id"`
	EventID  uuid.UUID `json:"event_id"`
	SellerID uuid.UUID `json:"seller_id"`

	// Section placement
	SectionID   uuid.UUID `json:"section_id"`
	SectionName string    `json:"section_name"`
	Row         string    `json:"row,omitempty"`

	// Offer terms
	Price             values.Money `json:"price"` // per ticket
	AvailableQuantity int          `json:"available_quantity"`

	Status Status `json:"status"`

	// Event timing, denormalized onto the listing so scoring never needs a
	// second catalog lookup
	EventDate time.Time `json:"event_date"`

	// Seller snapshot at fetch time
	Seller SellerSnapshot `json:"seller"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SellerSnapshot carries the seller attributes the trust score reads. It is a
// point-in-time copy, never a live reference.
type SellerSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Rating      float64   `json:"rating"` // 0..5
	TotalSales  int       `json:"total_sales"`
	MemberSince time.Time `json:"member_since"`
}

// AccountAgeMonths returns the seller's whole months of tenure at the given
// reference time.
func (s SellerSnapshot) AccountAgeMonths(now time.Time) int {
	if s.MemberSince.IsZero() || s.MemberSince.After(now) {
		return 0
	}
	months := 0
	for t := s.MemberSince.AddDate(0, 1, 0); !t.After(now); t = t.AddDate(0, 1, 0) {
		months++
	}
	return months
}

type Status int

const (
	StatusActive Status = iota
	StatusPendingSale
	StatusSold
	StatusCancelled
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPendingSale:
		return "pending_sale"
	case StatusSold:
		return "sold"
	case StatusCancelled:
		return "cancelled"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// StatusFromString parses a status stored as text
func StatusFromString(s string) Status {
	switch s {
	case "active":
		return StatusActive
	case "pending_sale":
		return StatusPendingSale
	case "sold":
		return StatusSold
	case "cancelled":
		return StatusCancelled
	case "expired":
		return StatusExpired
	default:
		return StatusExpired
	}
}

// IsAvailable reports whether the listing may enter a candidate pool
func (l *Listing) IsAvailable() bool {
	return l.Status == StatusActive && l.AvailableQuantity > 0
}
