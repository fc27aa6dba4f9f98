package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	var variant catalog.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByProduct returns all variants of a product
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	var variants []catalog.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ExistsBySKU checks if a variant with the given SKU exists
func (r *GormVariantRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).
		Where("sku = ?", strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindBatch returns variants ordered by ID for stable batch scans
func (r *GormVariantRepository) FindBatch(ctx context.Context, offset, limit int) ([]catalog.ProductVariant, error) {
	var variants []catalog.ProductVariant
	if err := r.db.WithContext(ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
