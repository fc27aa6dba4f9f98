package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a sellable catalog item and the aggregate root for its
// pricing state. Price and LowestPrice30d are written exclusively
// through the price ledger; handlers and services never set them
// directly.
type Product struct {
	shared.BaseAggregateRoot
	SKU            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LowestPrice30d decimal.Decimal `gorm:"column:lowest_price_30d;type:decimal(18,4);not null;default:0"`
	Status         ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. The initial price is applied to
// both the live price and the rolling lowest; the caller persists the
// matching first ledger entry in the same transaction.
func NewProduct(sku, name string, initialPrice decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if initialPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             initialPrice,
		LowestPrice30d:    initialPrice,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now().UTC()
	p.IncrementVersion()
	return nil
}

// Deactivate marks the product as no longer sellable. Its ledger and
// lowest-price figure remain intact.
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now().UTC()
	p.IncrementVersion()
}

// PriceRef identifies the product in the price ledger
func (p *Product) PriceRef() pricing.EntityRef {
	return pricing.EntityRef{Type: pricing.EntityTypeProduct, ID: p.ID}
}

// CurrentPrice returns the live price
func (p *Product) CurrentPrice() decimal.Decimal {
	return p.Price
}

// ApplyPrice sets the live price as of the given instant
func (p *Product) ApplyPrice(price decimal.Decimal, at time.Time) {
	p.Price = price
	p.UpdatedAt = at.UTC()
	p.IncrementVersion()
}

// LowestPrice returns the stored rolling 30-day lowest price
func (p *Product) LowestPrice() decimal.Decimal {
	return p.LowestPrice30d
}

// SetLowestPrice overwrites the stored rolling lowest price
func (p *Product) SetLowestPrice(price decimal.Decimal) {
	p.LowestPrice30d = price
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "SKU is required")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Name cannot exceed 200 characters")
	}
	return nil
}
