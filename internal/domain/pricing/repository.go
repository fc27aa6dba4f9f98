package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// HistoryRepository reads the append-only price change ledger
type HistoryRepository interface {
	// HistoryAscending returns every entry for the entity in ledger
	// order: effective_at ascending, insertion sequence breaking ties.
	HistoryAscending(ctx context.Context, ref EntityRef) ([]PriceChange, error)

	// ListDescending returns a page of entries for the entity, newest
	// first, together with the total entry count.
	ListDescending(ctx context.Context, ref EntityRef, page shared.Page) ([]PriceChange, int64, error)
}

// Ledger is the single write path for prices. Every mutation couples a
// ledger append with the aggregate's price columns in one transaction,
// guarded by a compare-and-swap on the aggregate version.
type Ledger interface {
	// Create persists a brand-new aggregate together with its first
	// ledger entry atomically.
	Create(ctx context.Context, entity Priceable, change *PriceChange) error

	// Commit appends the entry and writes the aggregate's updated
	// price, lowest_price_30d and version in one transaction. Returns
	// shared.ErrConcurrencyConflict when the version check fails.
	Commit(ctx context.Context, entity Priceable, change *PriceChange) error

	// CorrectAggregate rewrites only the stored lowest_price_30d via
	// the same version check. The ledger itself is never touched.
	CorrectAggregate(ctx context.Context, entity Priceable, lowest decimal.Decimal) error
}
