package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Window is the rolling period the lowest-price figure is computed over.
// Regulation defines it as 30 days; it is applied as exactly 720 hours,
// not calendar months.
const Window = 30 * 24 * time.Hour

// ErrNoHistory is returned when an entity has no ledger entry at or
// before the evaluation instant, so no lowest price can be computed.
var ErrNoHistory = shared.NewDomainError("NO_HISTORY", "Entity has no price history")

// PricePoint is one calculator input: a price and the instant it took effect
type PricePoint struct {
	EffectiveAt time.Time
	Price       decimal.Decimal
}

// LowestInWindow computes the lowest price over the half-open window
// (at-720h, at]. Points must be sorted by EffectiveAt ascending with
// insertion order breaking ties, i.e. ledger order.
//
// The candidate set is every point inside the window plus the carry-in:
// the price in force when the window opened, taken from the latest point
// at or before the window start. Points effective after the evaluation
// instant are ignored.
func LowestInWindow(points []PricePoint, at time.Time) (decimal.Decimal, error) {
	windowStart := at.Add(-Window)

	var carryIn *decimal.Decimal
	var lowest *decimal.Decimal

	for i := range points {
		p := points[i]
		if p.EffectiveAt.After(at) {
			continue
		}
		if !p.EffectiveAt.After(windowStart) {
			// Later points overwrite: the carry-in is the price in
			// force at the instant the window opened.
			carryIn = &points[i].Price
			continue
		}
		if lowest == nil || p.Price.LessThan(*lowest) {
			lowest = &points[i].Price
		}
	}

	if carryIn != nil && (lowest == nil || carryIn.LessThan(*lowest)) {
		lowest = carryIn
	}
	if lowest == nil {
		return decimal.Decimal{}, ErrNoHistory
	}
	return *lowest, nil
}
