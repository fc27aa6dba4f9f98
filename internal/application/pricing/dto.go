package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// UpdatePriceRequest represents a request to change an entity's price
type UpdatePriceRequest struct {
	NewPrice  decimal.Decimal      `json:"new_price" binding:"required"`
	Source    pricing.ChangeSource `json:"source"`
	ChangedBy *uuid.UUID           `json:"-"`
	Reason    string               `json:"reason" binding:"max=2000"`
}

// PriceUpdateResult reports the state committed by a price update.
// Money fields render as amount plus currency on the wire.
type PriceUpdateResult struct {
	EntityID       uuid.UUID          `json:"entity_id"`
	EntityType     pricing.EntityType `json:"entity_type"`
	Price          valueobject.Money  `json:"price"`
	LowestPrice30d valueobject.Money  `json:"lowest_price_30d"`
	EffectiveAt    time.Time          `json:"effective_at"`
	Version        int                `json:"version"`
}

// PriceChangeResponse represents one ledger entry in API responses
type PriceChangeResponse struct {
	Seq         int64                `json:"seq"`
	EntityType  pricing.EntityType   `json:"entity_type"`
	EntityID    uuid.UUID            `json:"entity_id"`
	Price       valueobject.Money    `json:"price"`
	Source      pricing.ChangeSource `json:"source"`
	ChangedBy   *uuid.UUID           `json:"changed_by,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	EffectiveAt time.Time            `json:"effective_at"`
}

func toPriceChangeResponse(c pricing.PriceChange) PriceChangeResponse {
	return PriceChangeResponse{
		Seq:         c.Seq,
		EntityType:  c.EntityType,
		EntityID:    c.EntityID,
		Price:       valueobject.NewMoneyUSD(c.Price),
		Source:      c.Source,
		ChangedBy:   c.ChangedBy,
		Reason:      c.Reason,
		EffectiveAt: c.EffectiveAt,
	}
}

// RecalcReport summarizes one full audit pass
type RecalcReport struct {
	Checked   int `json:"checked"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Mismatch describes one entity whose stored lowest price has drifted
// from the value recomputed over its ledger
type Mismatch struct {
	EntityID   uuid.UUID          `json:"entity_id"`
	EntityType pricing.EntityType `json:"entity_type"`
	Stored     valueobject.Money  `json:"stored"`
	Computed   valueobject.Money  `json:"computed"`
	Delta      valueobject.Money  `json:"delta"`
}

func newMismatch(ref pricing.EntityRef, stored, computed decimal.Decimal) Mismatch {
	s := valueobject.NewMoneyUSD(stored)
	c := valueobject.NewMoneyUSD(computed)
	// same currency, Sub cannot fail
	delta, _ := s.Sub(c)
	return Mismatch{
		EntityID:   ref.ID,
		EntityType: ref.Type,
		Stored:     s,
		Computed:   c,
		Delta:      delta,
	}
}
