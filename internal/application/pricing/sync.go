package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// SyncPriceUpdate is one item in a bulk feed from an external surface
type SyncPriceUpdate struct {
	EntityType pricing.EntityType   `json:"entity_type" binding:"required,oneof=product variant"`
	EntityID   uuid.UUID            `json:"entity_id" binding:"required"`
	NewPrice   decimal.Decimal      `json:"new_price"`
	Source     pricing.ChangeSource `json:"source" binding:"omitempty,oneof=system_sync promotion import"`
	Reason     string               `json:"reason" binding:"max=2000"`
}

// SyncBatchRequest represents a bulk price feed
type SyncBatchRequest struct {
	Updates []SyncPriceUpdate `json:"updates" binding:"required,min=1,max=1000,dive"`
}

// SyncItemResult reports the outcome of one batch item
type SyncItemResult struct {
	EntityType pricing.EntityType `json:"entity_type"`
	EntityID   uuid.UUID          `json:"entity_id"`
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
	Result     *PriceUpdateResult `json:"result,omitempty"`
}

// SyncBatchResponse summarizes a processed batch
type SyncBatchResponse struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []SyncItemResult `json:"results"`
}

// SyncService routes bulk price feeds through the Recorder, one commit
// per item. A failing item is reported and never aborts the batch.
type SyncService struct {
	recorder *Recorder
	log      *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(recorder *Recorder, log *zap.Logger) *SyncService {
	return &SyncService{recorder: recorder, log: log}
}

// ApplyBatch processes every item in order and reports per-item results
func (s *SyncService) ApplyBatch(ctx context.Context, req SyncBatchRequest) (*SyncBatchResponse, error) {
	resp := &SyncBatchResponse{
		Total:   len(req.Updates),
		Results: make([]SyncItemResult, 0, len(req.Updates)),
	}

	for _, item := range req.Updates {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		source := item.Source
		if source == "" {
			source = pricing.SourceSystemSync
		}
		update := UpdatePriceRequest{
			NewPrice: item.NewPrice,
			Source:   source,
			Reason:   item.Reason,
		}

		var result *PriceUpdateResult
		var err error
		switch item.EntityType {
		case pricing.EntityTypeProduct:
			result, err = s.recorder.UpdateProductPrice(ctx, item.EntityID, update)
		case pricing.EntityTypeVariant:
			result, err = s.recorder.UpdateVariantPrice(ctx, item.EntityID, update)
		default:
			err = shared.NewDomainError("VALIDATION_ERROR", "Unknown entity type")
		}

		if err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, SyncItemResult{
				EntityType: item.EntityType,
				EntityID:   item.EntityID,
				Error:      errorCode(err),
			})
			s.log.Warn("sync item failed",
				zap.String("entity_type", string(item.EntityType)),
				zap.String("entity_id", item.EntityID.String()),
				zap.Error(err))
			continue
		}

		resp.Succeeded++
		resp.Results = append(resp.Results, SyncItemResult{
			EntityType: item.EntityType,
			EntityID:   item.EntityID,
			Success:    true,
			Result:     result,
		})
	}

	return resp, nil
}

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL_ERROR"
}
