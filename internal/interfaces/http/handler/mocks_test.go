package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, page shared.Page) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindBatch(ctx context.Context, offset, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockVariantRepository implements catalog.VariantRepository for testing
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockVariantRepository) FindBatch(ctx context.Context, offset, limit int) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

// MockHistoryRepository implements pricing.HistoryRepository for testing
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) HistoryAscending(ctx context.Context, ref pricing.EntityRef) ([]pricing.PriceChange, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).([]pricing.PriceChange), args.Error(1)
}

func (m *MockHistoryRepository) ListDescending(ctx context.Context, ref pricing.EntityRef, page shared.Page) ([]pricing.PriceChange, int64, error) {
	args := m.Called(ctx, ref, page)
	return args.Get(0).([]pricing.PriceChange), args.Get(1).(int64), args.Error(2)
}

// MockLedger implements pricing.Ledger for testing
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, entity pricing.Priceable, change *pricing.PriceChange) error {
	args := m.Called(ctx, entity, change)
	return args.Error(0)
}

func (m *MockLedger) Commit(ctx context.Context, entity pricing.Priceable, change *pricing.PriceChange) error {
	args := m.Called(ctx, entity, change)
	return args.Error(0)
}

func (m *MockLedger) CorrectAggregate(ctx context.Context, entity pricing.Priceable, lowest decimal.Decimal) error {
	args := m.Called(ctx, entity, lowest)
	return args.Error(0)
}

var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// setupTestRouter builds a gin engine with an authenticated test
// operator already set in the request context
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, testUserID.String())
		c.Next()
	})
	return router
}

func createTestProduct() *catalog.Product {
	product, _ := catalog.NewProduct("SKU-001", "Test Product", decimal.NewFromInt(100))
	return product
}

func createTestVariant(productID uuid.UUID) *catalog.ProductVariant {
	variant, _ := catalog.NewProductVariant(productID, "SKU-001-L", "Large", decimal.NewFromInt(110))
	return variant
}
