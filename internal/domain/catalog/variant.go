package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductVariant is one sellable variation of a product (size, color).
// It carries its own price ledger, independent of the parent product's.
type ProductVariant struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LowestPrice30d decimal.Decimal `gorm:"column:lowest_price_30d;type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant creates a variant under the given product
func NewProductVariant(productID uuid.UUID, sku, name string, initialPrice decimal.Decimal) (*ProductVariant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID is required")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if initialPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}
	return &ProductVariant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             initialPrice,
		LowestPrice30d:    initialPrice,
	}, nil
}

// Update renames the variant
func (v *ProductVariant) Update(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	v.Name = name
	v.UpdatedAt = time.Now().UTC()
	v.IncrementVersion()
	return nil
}

// PriceRef identifies the variant in the price ledger
func (v *ProductVariant) PriceRef() pricing.EntityRef {
	return pricing.EntityRef{Type: pricing.EntityTypeVariant, ID: v.ID}
}

// CurrentPrice returns the live price
func (v *ProductVariant) CurrentPrice() decimal.Decimal {
	return v.Price
}

// ApplyPrice sets the live price as of the given instant
func (v *ProductVariant) ApplyPrice(price decimal.Decimal, at time.Time) {
	v.Price = price
	v.UpdatedAt = at.UTC()
	v.IncrementVersion()
}

// LowestPrice returns the stored rolling 30-day lowest price
func (v *ProductVariant) LowestPrice() decimal.Decimal {
	return v.LowestPrice30d
}

// SetLowestPrice overwrites the stored rolling lowest price
func (v *ProductVariant) SetLowestPrice(price decimal.Decimal) {
	v.LowestPrice30d = price
}
