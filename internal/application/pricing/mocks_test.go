package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, page shared.Page) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepository) FindBatch(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type mockVariantRepository struct {
	mock.Mock
}

func (m *mockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *mockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *mockVariantRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *mockVariantRepository) FindBatch(ctx context.Context, offset, limit int) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *mockVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) HistoryAscending(ctx context.Context, ref pricing.EntityRef) ([]pricing.PriceChange, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.PriceChange), args.Error(1)
}

func (m *mockHistoryRepository) ListDescending(ctx context.Context, ref pricing.EntityRef, page shared.Page) ([]pricing.PriceChange, int64, error) {
	args := m.Called(ctx, ref, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]pricing.PriceChange), args.Get(1).(int64), args.Error(2)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Create(ctx context.Context, entity pricing.Priceable, change *pricing.PriceChange) error {
	args := m.Called(ctx, entity, change)
	return args.Error(0)
}

func (m *mockLedger) Commit(ctx context.Context, entity pricing.Priceable, change *pricing.PriceChange) error {
	args := m.Called(ctx, entity, change)
	return args.Error(0)
}

func (m *mockLedger) CorrectAggregate(ctx context.Context, entity pricing.Priceable, lowest decimal.Decimal) error {
	args := m.Called(ctx, entity, lowest)
	return args.Error(0)
}
