package match

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/values"
)

// ConfidenceTier is the discrete classification of an overall match score
type ConfidenceTier int

const (
	ConfidenceNone ConfidenceTier = iota // below the lowest threshold, never emitted
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

func (t ConfidenceTier) String() string {
	switch t {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	case ConfidenceLow:
		return "LOW"
	default:
		return "NONE"
	}
}

// TierFromString parses a tier name as stored in history rows and payloads
func TierFromString(s string) (ConfidenceTier, error) {
	switch s {
	case "HIGH":
		return ConfidenceHigh, nil
	case "MEDIUM":
		return ConfidenceMedium, nil
	case "LOW":
		return ConfidenceLow, nil
	case "NONE":
		return ConfidenceNone, nil
	default:
		return ConfidenceNone, fmt.Errorf("unknown confidence tier: %q", s)
	}
}

// MarshalJSON encodes the tier by name so payloads stay readable
func (t ConfidenceTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ConfidenceTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tier, err := TierFromString(s)
	if err != nil {
		return err
	}
	*t = tier
	return nil
}

// Criteria holds the five factor scores plus the combined overall score for
// one (listing, preference) evaluation. Produced fresh on every run, never
// persisted by the engine itself.
type Criteria struct {
	PriceScore    float64 `json:"price_score"`
	SectionScore  float64 `json:"section_score"`
	QuantityScore float64 `json:"quantity_score"`
	TimingScore   float64 `json:"timing_score"`
	SellerScore   float64 `json:"seller_score"`
	OverallScore  float64 `json:"overall_score"`
}

// Result is the engine's output unit for a single matched listing
type Result struct {
	ListingID uuid.UUID `json:"listing_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	EventID   uuid.UUID `json:"event_id"`

	Score            float64        `json:"score"`
	Criteria         Criteria       `json:"criteria"`
	Confidence       ConfidenceTier `json:"confidence"`
	RecommendedPrice values.Money   `json:"recommended_price"`
	Reasons          []string       `json:"reasons"`
	AutoApprove      bool           `json:"auto_approve"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}
