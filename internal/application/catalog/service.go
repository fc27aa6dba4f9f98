package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service handles catalog business operations. Entity creation goes
// through the price ledger so the first history entry and the
// aggregate row are committed atomically.
type Service struct {
	products catalog.ProductRepository
	variants catalog.VariantRepository
	ledger   pricing.Ledger
	log      *zap.Logger
}

// NewService creates a new catalog Service
func NewService(
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	ledger pricing.Ledger,
	log *zap.Logger,
) *Service {
	return &Service{
		products: products,
		variants: variants,
		ledger:   ledger,
		log:      log,
	}
}

// CreateProduct creates a product and its first ledger entry
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.products.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(sku, req.Name, req.InitialPrice)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		product.Description = req.Description
	}

	change, err := pricing.NewPriceChange(product.PriceRef(), req.InitialPrice,
		pricing.SourceAdmin, req.CreatedBy, "initial price", product.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Create(ctx, product, change); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))
	return toProductResponse(product), nil
}

// UpdateProduct updates a product's descriptive fields. Price fields
// are untouched; those only move through the price ledger.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("product updated",
		zap.String("product_id", product.ID.String()))
	return toProductResponse(product), nil
}

// DeactivateProduct marks a product as no longer sellable
func (s *Service) DeactivateProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Status == catalog.ProductStatusInactive {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}

	product.Deactivate()
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("product deactivated",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))
	return toProductResponse(product), nil
}

// GetProduct returns a single product by ID
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts returns a page of products
func (s *Service) ListProducts(ctx context.Context, page shared.Page) (*shared.Paginated[ProductResponse], error) {
	page = page.Normalize()
	products, total, err := s.products.List(ctx, page)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *toProductResponse(&products[i]))
	}
	result := shared.NewPaginated(items, total, page)
	return &result, nil
}

// CreateVariant creates a variant under a product, with its own first
// ledger entry
func (s *Service) CreateVariant(ctx context.Context, productID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.variants.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Variant with this SKU already exists")
	}

	variant, err := catalog.NewProductVariant(productID, sku, req.Name, req.InitialPrice)
	if err != nil {
		return nil, err
	}

	change, err := pricing.NewPriceChange(variant.PriceRef(), req.InitialPrice,
		pricing.SourceAdmin, req.CreatedBy, "initial price", variant.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Create(ctx, variant, change); err != nil {
		return nil, err
	}

	s.log.Info("variant created",
		zap.String("variant_id", variant.ID.String()),
		zap.String("product_id", productID.String()),
		zap.String("sku", variant.SKU))
	return toVariantResponse(variant), nil
}

// UpdateVariant renames a variant. Nil fields are left unchanged.
func (s *Service) UpdateVariant(ctx context.Context, id uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	variant, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := variant.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if err := s.variants.Save(ctx, variant); err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// GetVariant returns a single variant by ID
func (s *Service) GetVariant(ctx context.Context, id uuid.UUID) (*VariantResponse, error) {
	variant, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// ListVariants returns all variants of a product
func (s *Service) ListVariants(ctx context.Context, productID uuid.UUID) ([]VariantResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	variants, err := s.variants.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]VariantResponse, 0, len(variants))
	for i := range variants {
		items = append(items, *toVariantResponse(&variants[i]))
	}
	return items, nil
}
