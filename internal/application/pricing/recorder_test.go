package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

func newTestProduct(t *testing.T, price float64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("tee-001", "Basic Tee", decimal.NewFromFloat(price))
	require.NoError(t, err)
	return p
}

func entryAt(ref pricing.EntityRef, at time.Time, price float64) pricing.PriceChange {
	return pricing.PriceChange{
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		Price:       decimal.NewFromFloat(price),
		Source:      pricing.SourceAdmin,
		EffectiveAt: at,
	}
}

type recorderFixture struct {
	products *mockProductRepository
	variants *mockVariantRepository
	history  *mockHistoryRepository
	ledger   *mockLedger
	recorder *Recorder
	now      time.Time
}

func newRecorderFixture(t *testing.T) *recorderFixture {
	t.Helper()
	f := &recorderFixture{
		products: new(mockProductRepository),
		variants: new(mockVariantRepository),
		history:  new(mockHistoryRepository),
		ledger:   new(mockLedger),
		now:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.recorder = NewRecorder(f.products, f.variants, f.history, f.ledger, zap.NewNop())
	f.recorder.now = func() time.Time { return f.now }
	return f
}

func TestRecorderUpdateProductPrice(t *testing.T) {
	t.Run("appends entry and updates both price figures", func(t *testing.T) {
		f := newRecorderFixture(t)
		product := newTestProduct(t, 100)
		ref := product.PriceRef()

		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{
			entryAt(ref, f.now.Add(-20*24*time.Hour), 100),
		}, nil)

		var committed *pricing.PriceChange
		f.ledger.On("Commit", mock.Anything, product, mock.Anything).
			Run(func(args mock.Arguments) {
				committed = args.Get(2).(*pricing.PriceChange)
			}).
			Return(nil)

		result, err := f.recorder.UpdateProductPrice(context.Background(), product.ID, UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(80),
			Source:   pricing.SourceAdmin,
			Reason:   "spring sale",
		})
		require.NoError(t, err)

		assert.True(t, result.Price.Amount().Equal(decimal.NewFromInt(80)))
		assert.True(t, result.LowestPrice30d.Amount().Equal(decimal.NewFromInt(80)))
		assert.Equal(t, valueobject.USD, result.Price.Currency())
		assert.Equal(t, f.now, result.EffectiveAt)
		assert.Equal(t, 2, result.Version)

		require.NotNil(t, committed)
		assert.Equal(t, ref.ID, committed.EntityID)
		assert.True(t, committed.Price.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, "spring sale", committed.Reason)
		f.ledger.AssertExpectations(t)
	})

	t.Run("price rise keeps earlier in-window low", func(t *testing.T) {
		f := newRecorderFixture(t)
		product := newTestProduct(t, 80)
		ref := product.PriceRef()

		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{
			entryAt(ref, f.now.Add(-25*24*time.Hour), 100),
			entryAt(ref, f.now.Add(-15*24*time.Hour), 80),
		}, nil)
		f.ledger.On("Commit", mock.Anything, product, mock.Anything).Return(nil)

		result, err := f.recorder.UpdateProductPrice(context.Background(), product.ID, UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		assert.True(t, result.Price.Amount().Equal(decimal.NewFromInt(120)))
		assert.True(t, result.LowestPrice30d.Amount().Equal(decimal.NewFromInt(80)))
	})

	t.Run("same-value update still writes an entry", func(t *testing.T) {
		f := newRecorderFixture(t)
		product := newTestProduct(t, 100)
		ref := product.PriceRef()

		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{
			entryAt(ref, f.now.Add(-24*time.Hour), 100),
		}, nil)
		f.ledger.On("Commit", mock.Anything, product, mock.Anything).Return(nil).Once()

		_, err := f.recorder.UpdateProductPrice(context.Background(), product.ID, UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		f.ledger.AssertExpectations(t)
	})

	t.Run("rejects negative price before touching storage", func(t *testing.T) {
		f := newRecorderFixture(t)

		_, err := f.recorder.UpdateProductPrice(context.Background(), uuid.New(), UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(-1),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.ledger.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown entity propagates not found", func(t *testing.T) {
		f := newRecorderFixture(t)
		id := uuid.New()
		f.products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.recorder.UpdateProductPrice(context.Background(), id, UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRecorderRetriesOnVersionConflict(t *testing.T) {
	t.Run("reloads and succeeds after losing the race", func(t *testing.T) {
		f := newRecorderFixture(t)
		product := newTestProduct(t, 100)
		ref := product.PriceRef()

		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{
			entryAt(ref, f.now.Add(-24*time.Hour), 100),
		}, nil)
		f.ledger.On("Commit", mock.Anything, mock.Anything, mock.Anything).
			Return(shared.ErrConcurrencyConflict).Twice()
		f.ledger.On("Commit", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()

		_, err := f.recorder.UpdateProductPrice(context.Background(), product.ID, UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(90),
		})
		require.NoError(t, err)
		f.products.AssertNumberOfCalls(t, "FindByID", 3)
		f.ledger.AssertExpectations(t)
	})

	t.Run("surfaces conflict after exhausting retries", func(t *testing.T) {
		f := newRecorderFixture(t)
		product := newTestProduct(t, 100)
		ref := product.PriceRef()

		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{
			entryAt(ref, f.now.Add(-24*time.Hour), 100),
		}, nil)
		f.ledger.On("Commit", mock.Anything, mock.Anything, mock.Anything).
			Return(shared.ErrConcurrencyConflict)

		_, err := f.recorder.UpdateProductPrice(context.Background(), product.ID, UpdatePriceRequest{
			NewPrice: decimal.NewFromInt(90),
		})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.ledger.AssertNumberOfCalls(t, "Commit", 3)
	})
}

func TestRecorderUpdateVariantPrice(t *testing.T) {
	f := newRecorderFixture(t)
	variant, err := catalog.NewProductVariant(uuid.New(), "tee-001-xl", "Basic Tee XL", decimal.NewFromInt(50))
	require.NoError(t, err)
	ref := variant.PriceRef()

	f.variants.On("FindByID", mock.Anything, variant.ID).Return(variant, nil)
	f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{
		entryAt(ref, f.now.Add(-10*24*time.Hour), 50),
	}, nil)
	f.ledger.On("Commit", mock.Anything, variant, mock.Anything).Return(nil)

	result, err := f.recorder.UpdateVariantPrice(context.Background(), variant.ID, UpdatePriceRequest{
		NewPrice: decimal.NewFromInt(45),
		Source:   pricing.SourceSystemSync,
	})
	require.NoError(t, err)
	assert.Equal(t, pricing.EntityTypeVariant, result.EntityType)
	assert.True(t, result.LowestPrice30d.Amount().Equal(decimal.NewFromInt(45)))
}

func TestRecorderTracesUpdates(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newRecorderFixture(t)
	product := newTestProduct(t, 100)
	ref := product.PriceRef()

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.history.On("HistoryAscending", mock.Anything, ref).Return([]pricing.PriceChange{}, nil)
	f.ledger.On("Commit", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.recorder.UpdateProductPrice(context.Background(), product.ID, UpdatePriceRequest{
		NewPrice: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	spans := spanRecorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "price_recorder.update", spans[0].Name())

	attrs := make(map[attribute.Key]string)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	assert.Equal(t, product.ID.String(), attrs[attribute.Key(telemetry.SpanAttrEntityID)])
	assert.Equal(t, "product", attrs[attribute.Key(telemetry.SpanAttrEntityType)])
}
