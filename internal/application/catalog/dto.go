package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"max=2000"`
	InitialPrice decimal.Decimal `json:"initial_price"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// UpdateProductRequest represents a request to update a product's
// descriptive fields. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateVariantRequest represents a request to create a product variant
type CreateVariantRequest struct {
	SKU          string          `json:"sku" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	InitialPrice decimal.Decimal `json:"initial_price"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// UpdateVariantRequest represents a request to rename a variant
type UpdateVariantRequest struct {
	Name *string `json:"name"`
}

// ProductResponse represents a product in API responses. Money fields
// render as amount plus currency on the wire.
type ProductResponse struct {
	ID             uuid.UUID         `json:"id"`
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          valueobject.Money `json:"price"`
	LowestPrice30d valueobject.Money `json:"lowest_price_30d"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      uuid.UUID         `json:"product_id"`
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	Price          valueobject.Money `json:"price"`
	LowestPrice30d valueobject.Money `json:"lowest_price_30d"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

func toProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Price:          valueobject.NewMoneyUSD(p.Price),
		LowestPrice30d: valueobject.NewMoneyUSD(p.LowestPrice30d),
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

func toVariantResponse(v *catalog.ProductVariant) *VariantResponse {
	return &VariantResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		SKU:            v.SKU,
		Name:           v.Name,
		Price:          valueobject.NewMoneyUSD(v.Price),
		LowestPrice30d: valueobject.NewMoneyUSD(v.LowestPrice30d),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		Version:        v.Version,
	}
}
