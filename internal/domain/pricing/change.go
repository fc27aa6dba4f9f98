package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// EntityType identifies which kind of priceable entity a ledger entry belongs to
type EntityType string

const (
	EntityTypeProduct EntityType = "product"
	EntityTypeVariant EntityType = "variant"
)

// ChangeSource identifies the surface a price change originated from
type ChangeSource string

const (
	SourceSystemSync ChangeSource = "system_sync"
	SourceAdmin      ChangeSource = "admin"
	SourcePromotion  ChangeSource = "promotion"
	SourceImport     ChangeSource = "import"
)

var validSources = map[ChangeSource]struct{}{
	SourceSystemSync: {},
	SourceAdmin:      {},
	SourcePromotion:  {},
	SourceImport:     {},
}

// IsValid reports whether the source is one of the known change origins
func (s ChangeSource) IsValid() bool {
	_, ok := validSources[s]
	return ok
}

// EntityRef identifies one priceable entity in the ledger
type EntityRef struct {
	Type EntityType
	ID   uuid.UUID
}

// PriceChange is one append-only ledger entry. Entries are never updated
// or deleted after insertion; Seq breaks ordering ties between entries
// sharing an EffectiveAt timestamp.
type PriceChange struct {
	Seq         int64           `gorm:"primaryKey;autoIncrement"`
	EntityType  EntityType      `gorm:"type:varchar(10);not null;index:idx_price_changes_entity,priority:1"`
	EntityID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_changes_entity,priority:2"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Source      ChangeSource    `gorm:"type:varchar(20);not null"`
	ChangedBy   *uuid.UUID      `gorm:"type:uuid"`
	Reason      string          `gorm:"type:text"`
	EffectiveAt time.Time       `gorm:"not null;index:idx_price_changes_entity,priority:3"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PriceChange) TableName() string {
	return "price_changes"
}

// NewPriceChange creates a ledger entry for the given entity.
// The price must be non-negative and the source one of the known origins.
func NewPriceChange(ref EntityRef, price decimal.Decimal, source ChangeSource, changedBy *uuid.UUID, reason string, effectiveAt time.Time) (*PriceChange, error) {
	if price.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown price change source")
	}
	if ref.ID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Entity ID is required")
	}
	now := time.Now().UTC()
	if effectiveAt.IsZero() {
		effectiveAt = now
	}
	return &PriceChange{
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		Price:       price,
		Source:      source,
		ChangedBy:   changedBy,
		Reason:      reason,
		EffectiveAt: effectiveAt.UTC(),
		CreatedAt:   now,
	}, nil
}

// Point returns the entry as a calculator input
func (c *PriceChange) Point() PricePoint {
	return PricePoint{EffectiveAt: c.EffectiveAt, Price: c.Price}
}

// Priceable is implemented by every aggregate that carries a live price
// and a rolling lowest-price figure. The price history ledger is the
// only writer of both fields.
type Priceable interface {
	shared.AggregateRoot
	PriceRef() EntityRef
	CurrentPrice() decimal.Decimal
	ApplyPrice(price decimal.Decimal, at time.Time)
	LowestPrice() decimal.Decimal
	SetLowestPrice(price decimal.Decimal)
}
