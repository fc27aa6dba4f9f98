package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// List returns a page of products with the total count
	List(ctx context.Context, page shared.Page) ([]Product, int64, error)

	// FindBatch returns products ordered by ID for batch scans
	FindBatch(ctx context.Context, offset, limit int) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// VariantRepository defines the interface for product variant persistence
type VariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)

	// FindByProduct returns all variants of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductVariant, error)

	// ExistsBySKU checks if a variant with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// FindBatch returns variants ordered by ID for batch scans
	FindBatch(ctx context.Context, offset, limit int) ([]ProductVariant, error)

	// Save creates or updates a variant
	Save(ctx context.Context, variant *ProductVariant) error
}
