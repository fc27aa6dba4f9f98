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

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ExistsBySKU checks if a product with the given SKU exists
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("sku = ?", strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of products ordered by creation time, with the
// total count
func (r *GormProductRepository) List(ctx context.Context, page shared.Page) ([]catalog.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindBatch returns products ordered by ID for stable batch scans
func (r *GormProductRepository) FindBatch(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
