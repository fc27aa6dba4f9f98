package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormPriceLedger implements pricing.Ledger using GORM transactions.
// Aggregate writes use an optimistic lock on the version column so
// concurrent price updates serialize instead of overwriting each other.
type GormPriceLedger struct {
	db *gorm.DB
}

// NewGormPriceLedger creates a new GormPriceLedger
func NewGormPriceLedger(db *gorm.DB) *GormPriceLedger {
	return &GormPriceLedger{db: db}
}

// Create persists a new aggregate and its first ledger entry atomically
func (l *GormPriceLedger) Create(ctx context.Context, entity pricing.Priceable, change *pricing.PriceChange) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return tx.Create(change).Error
	})
}

// Commit appends the ledger entry and writes the aggregate's price
// columns in one transaction. The aggregate version must already be
// incremented; the update matches the previous version and zero
// affected rows means another writer got there first.
func (l *GormPriceLedger) Commit(ctx context.Context, entity pricing.Priceable, change *pricing.PriceChange) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(entity).
			Where("id = ? AND version = ?", entity.GetID(), entity.GetVersion()-1).
			Updates(map[string]interface{}{
				"price":            entity.CurrentPrice(),
				"lowest_price_30d": entity.LowestPrice(),
				"version":          entity.GetVersion(),
				"updated_at":       entity.GetUpdatedAt(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return tx.Create(change).Error
	})
}

// CorrectAggregate rewrites the stored lowest_price_30d under the same
// version check. No ledger entry is written; history stays untouched.
func (l *GormPriceLedger) CorrectAggregate(ctx context.Context, entity pricing.Priceable, lowest decimal.Decimal) error {
	prevVersion := entity.GetVersion()
	entity.IncrementVersion()
	entity.SetLowestPrice(lowest)

	result := l.db.WithContext(ctx).Model(entity).
		Where("id = ? AND version = ?", entity.GetID(), prevVersion).
		Updates(map[string]interface{}{
			"lowest_price_30d": lowest,
			"version":          entity.GetVersion(),
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ pricing.Ledger = (*GormPriceLedger)(nil)
