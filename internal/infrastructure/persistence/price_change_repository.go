package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormPriceChangeRepository implements pricing.HistoryRepository using GORM
type GormPriceChangeRepository struct {
	db *gorm.DB
}

// NewGormPriceChangeRepository creates a new GormPriceChangeRepository
func NewGormPriceChangeRepository(db *gorm.DB) *GormPriceChangeRepository {
	return &GormPriceChangeRepository{db: db}
}

// HistoryAscending returns every ledger entry for the entity in
// effective order, insertion sequence breaking ties
func (r *GormPriceChangeRepository) HistoryAscending(ctx context.Context, ref pricing.EntityRef) ([]pricing.PriceChange, error) {
	var entries []pricing.PriceChange
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).
		Order("effective_at ASC, seq ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListDescending returns a page of ledger entries for the entity,
// newest first, with the total entry count
func (r *GormPriceChangeRepository) ListDescending(ctx context.Context, ref pricing.EntityRef, page shared.Page) ([]pricing.PriceChange, int64, error) {
	scope := r.db.WithContext(ctx).Model(&pricing.PriceChange{}).
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []pricing.PriceChange
	if err := scope.
		Order("effective_at DESC, seq DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

var _ pricing.HistoryRepository = (*GormPriceChangeRepository)(nil)
