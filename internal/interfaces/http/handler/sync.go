package handler

import (
	"github.com/gin-gonic/gin"

	pricingapp "github.com/storefront/backend/internal/application/pricing"
)

// SyncHandler handles bulk price feed ingestion from external surfaces
type SyncHandler struct {
	BaseHandler
	service *pricingapp.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *pricingapp.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// ApplyBatch ingests a bulk price feed. Items are committed one at a
// time; per-item failures are reported in the response and never abort
// the batch.
func (h *SyncHandler) ApplyBatch(c *gin.Context) {
	var req pricingapp.SyncBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ApplyBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
