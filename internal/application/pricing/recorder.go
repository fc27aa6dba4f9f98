package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// maxCommitAttempts bounds the retry loop when the aggregate version
// check fails under concurrent writers.
const maxCommitAttempts = 3

// Recorder is the single mutation path for live prices. Every update
// appends a ledger entry, recomputes the rolling 30-day lowest price
// and writes both aggregate columns in one transaction.
type Recorder struct {
	products catalog.ProductRepository
	variants catalog.VariantRepository
	history  pricing.HistoryRepository
	ledger   pricing.Ledger
	log      *zap.Logger
	now      func() time.Time
}

// NewRecorder creates a new Recorder
func NewRecorder(
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	history pricing.HistoryRepository,
	ledger pricing.Ledger,
	log *zap.Logger,
) *Recorder {
	return &Recorder{
		products: products,
		variants: variants,
		history:  history,
		ledger:   ledger,
		log:      log,
		now:      time.Now,
	}
}

// UpdateProductPrice records a price change for a product
func (r *Recorder) UpdateProductPrice(ctx context.Context, id uuid.UUID, req UpdatePriceRequest) (*PriceUpdateResult, error) {
	return r.update(ctx, req, func(ctx context.Context) (pricing.Priceable, error) {
		return r.products.FindByID(ctx, id)
	})
}

// UpdateVariantPrice records a price change for a product variant
func (r *Recorder) UpdateVariantPrice(ctx context.Context, id uuid.UUID, req UpdatePriceRequest) (*PriceUpdateResult, error) {
	return r.update(ctx, req, func(ctx context.Context) (pricing.Priceable, error) {
		return r.variants.FindByID(ctx, id)
	})
}

// update runs the atomic update loop. The entity is reloaded on every
// attempt so the version check always starts from fresh state.
func (r *Recorder) update(ctx context.Context, req UpdatePriceRequest, load func(context.Context) (pricing.Priceable, error)) (*PriceUpdateResult, error) {
	if req.NewPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}
	source := req.Source
	if source == "" {
		source = pricing.SourceAdmin
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "price_recorder", "update")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSource, string(source),
		telemetry.SpanAttrPrice, req.NewPrice.String(),
	)

	var lastErr error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		entity, err := load(ctx)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		ref := entity.PriceRef()
		telemetry.SetAttributes(span,
			telemetry.SpanAttrEntityID, ref.ID.String(),
			telemetry.SpanAttrEntityType, string(ref.Type),
		)

		result, err := r.commit(ctx, entity, req, source)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			telemetry.RecordError(span, err)
			return nil, err
		}
		lastErr = err
		r.log.Debug("price update lost version race, retrying",
			zap.String("entity_id", entity.GetID().String()),
			zap.Int("attempt", attempt))
	}

	telemetry.RecordError(span, lastErr)
	r.log.Warn("price update exhausted retries",
		zap.Int("attempts", maxCommitAttempts),
		zap.String("trace_id", telemetry.GetTraceID(ctx)))
	return nil, lastErr
}

func (r *Recorder) commit(ctx context.Context, entity pricing.Priceable, req UpdatePriceRequest, source pricing.ChangeSource) (*PriceUpdateResult, error) {
	ref := entity.PriceRef()

	entries, err := r.history.HistoryAscending(ctx, ref)
	if err != nil {
		return nil, err
	}

	at := r.now().UTC()
	change, err := pricing.NewPriceChange(ref, req.NewPrice, source, req.ChangedBy, req.Reason, at)
	if err != nil {
		return nil, err
	}

	points := make([]pricing.PricePoint, 0, len(entries)+1)
	for i := range entries {
		points = append(points, entries[i].Point())
	}
	points = append(points, change.Point())

	lowest, err := pricing.LowestInWindow(points, at)
	if err != nil {
		// The new entry is always a candidate, so this cannot happen.
		return nil, err
	}

	entity.ApplyPrice(req.NewPrice, at)
	entity.SetLowestPrice(lowest)

	if err := r.ledger.Commit(ctx, entity, change); err != nil {
		return nil, err
	}

	r.log.Info("price updated",
		zap.String("entity_type", string(ref.Type)),
		zap.String("entity_id", ref.ID.String()),
		zap.String("price", req.NewPrice.String()),
		zap.String("lowest_price_30d", lowest.String()),
		zap.String("source", string(source)))

	return &PriceUpdateResult{
		EntityID:       ref.ID,
		EntityType:     ref.Type,
		Price:          valueobject.NewMoneyUSD(entity.CurrentPrice()),
		LowestPrice30d: valueobject.NewMoneyUSD(entity.LowestPrice()),
		EffectiveAt:    at,
		Version:        entity.GetVersion(),
	}, nil
}
