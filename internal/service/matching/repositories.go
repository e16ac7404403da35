package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/match"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/preference"
	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// CandidateFilters are the hard filters the catalog store applies before any
// scoring happens. Listings failing these never enter the candidate pool.
// Section matching here is exact and case-sensitive; the fuzzy comparison is
// a scoring concern, not an inclusion one.
type CandidateFilters struct {
	EventID     *uuid.UUID
	MinPrice    values.Money
	MaxPrice    values.Money
	MinQuantity int
	Sections    []string
	Limit       int
}

// ListingRepository provides read access to sale-side inventory
type ListingRepository interface {
	// FindCandidates returns active listings with positive availability that
	// pass every hard filter, capped at filters.Limit
	FindCandidates(ctx context.Context, filters CandidateFilters) ([]*listing.Listing, error)
}

// PreferenceRepository provides access to buyer preferences
type PreferenceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*preference.BuyerPreference, error)
	// GetActiveWithNotifications returns preferences eligible for a batch run
	GetActiveWithNotifications(ctx context.Context) ([]*preference.BuyerPreference, error)
	UpdateLastRun(ctx context.Context, id uuid.UUID, ts time.Time) error
}

// MatchHistoryRepository optionally persists ranked results for audit and
// for the buyer's match feed
type MatchHistoryRepository interface {
	RecordResults(ctx context.Context, results []*match.Result) error
}
