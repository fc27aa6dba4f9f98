package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// defaultAuditBatchSize is the number of entities loaded per scan batch
const defaultAuditBatchSize = 500

// AuditService recomputes every entity's rolling lowest price from its
// ledger and corrects stored figures that have drifted. It never
// rewrites history; corrections touch only the aggregate column.
type AuditService struct {
	products  catalog.ProductRepository
	variants  catalog.VariantRepository
	history   pricing.HistoryRepository
	ledger    pricing.Ledger
	log       *zap.Logger
	batchSize int
	now       func() time.Time
}

// NewAuditService creates a new AuditService
func NewAuditService(
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	history pricing.HistoryRepository,
	ledger pricing.Ledger,
	log *zap.Logger,
	batchSize int,
) *AuditService {
	if batchSize <= 0 {
		batchSize = defaultAuditBatchSize
	}
	return &AuditService{
		products:  products,
		variants:  variants,
		history:   history,
		ledger:    ledger,
		log:       log,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// RecalcAll scans all products, then all variants, in batches. Each
// drifted entity is corrected through the versioned write path.
// Per-entity failures are counted and logged, never abort the scan.
// Running it twice in a row leaves the second pass with zero updates.
func (s *AuditService) RecalcAll(ctx context.Context) (*RecalcReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "price_audit", "recalc_all")
	defer span.End()

	report := &RecalcReport{}
	at := s.now().UTC()

	visit := func(entity pricing.Priceable) bool {
		s.recalcEntity(ctx, entity, at, report)
		return true
	}
	if err := s.scan(ctx, visit); err != nil {
		telemetry.RecordError(span, err)
		return report, err
	}

	s.log.Info("price audit pass complete",
		zap.Int("checked", report.Checked),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("failed", report.Failed))
	return report, nil
}

// FindMismatches is the read-only variant of RecalcAll: it reports up
// to limit entities whose stored lowest price differs from the value
// recomputed over the ledger, without correcting anything.
func (s *AuditService) FindMismatches(ctx context.Context, limit int) ([]Mismatch, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "price_audit", "find_mismatches")
	defer span.End()

	mismatches := make([]Mismatch, 0)
	at := s.now().UTC()

	visit := func(entity pricing.Priceable) bool {
		computed, err := s.recompute(ctx, entity, at)
		if err != nil || computed.Equal(entity.LowestPrice()) {
			return true
		}
		mismatches = append(mismatches, newMismatch(entity.PriceRef(), entity.LowestPrice(), computed))
		return len(mismatches) < limit
	}
	if err := s.scan(ctx, visit); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return mismatches, nil
}

func (s *AuditService) recalcEntity(ctx context.Context, entity pricing.Priceable, at time.Time, report *RecalcReport) {
	report.Checked++
	ref := entity.PriceRef()

	computed, err := s.recompute(ctx, entity, at)
	if err != nil {
		report.Failed++
		s.log.Warn("audit could not recompute entity",
			zap.String("entity_type", string(ref.Type)),
			zap.String("entity_id", ref.ID.String()),
			zap.Error(err))
		return
	}

	if computed.Equal(entity.LowestPrice()) {
		report.Unchanged++
		return
	}

	stored := entity.LowestPrice()
	entity.SetLowestPrice(computed)
	if err := s.ledger.CorrectAggregate(ctx, entity, computed); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// A live update won the race; its commit already wrote a
			// self-consistent lowest price.
			report.Unchanged++
			s.log.Debug("audit correction skipped, entity updated concurrently",
				zap.String("entity_id", ref.ID.String()))
			return
		}
		report.Failed++
		s.log.Warn("audit correction failed",
			zap.String("entity_type", string(ref.Type)),
			zap.String("entity_id", ref.ID.String()),
			zap.Error(err))
		return
	}

	report.Updated++
	s.log.Info("audit corrected stored lowest price",
		zap.String("entity_type", string(ref.Type)),
		zap.String("entity_id", ref.ID.String()),
		zap.String("stored", stored.String()),
		zap.String("computed", computed.String()))
}

func (s *AuditService) recompute(ctx context.Context, entity pricing.Priceable, at time.Time) (decimal.Decimal, error) {
	entries, err := s.history.HistoryAscending(ctx, entity.PriceRef())
	if err != nil {
		return decimal.Decimal{}, err
	}
	points := make([]pricing.PricePoint, 0, len(entries))
	for i := range entries {
		points = append(points, entries[i].Point())
	}
	return pricing.LowestInWindow(points, at)
}

// scan walks all products, then all variants, in batches. The visitor
// returns false to stop early. Context cancellation is checked at
// batch boundaries so a long pass stops at a clean cut.
func (s *AuditService) scan(ctx context.Context, visit func(pricing.Priceable) bool) error {
	for offset := 0; ; offset += s.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := s.products.FindBatch(ctx, offset, s.batchSize)
		if err != nil {
			return err
		}
		for i := range batch {
			if !visit(&batch[i]) {
				return nil
			}
		}
		if len(batch) < s.batchSize {
			break
		}
	}
	for offset := 0; ; offset += s.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := s.variants.FindBatch(ctx, offset, s.batchSize)
		if err != nil {
			return err
		}
		for i := range batch {
			if !visit(&batch[i]) {
				return nil
			}
		}
		if len(batch) < s.batchSize {
			return nil
		}
	}
}
