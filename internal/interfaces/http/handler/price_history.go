package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// PriceHistoryHandler handles the price change ledger API endpoints
type PriceHistoryHandler struct {
	BaseHandler
	recorder *pricingapp.Recorder
	queries  *pricingapp.QueryService
	audit    *pricingapp.AuditService
}

// NewPriceHistoryHandler creates a new PriceHistoryHandler
func NewPriceHistoryHandler(
	recorder *pricingapp.Recorder,
	queries *pricingapp.QueryService,
	audit *pricingapp.AuditService,
) *PriceHistoryHandler {
	return &PriceHistoryHandler{
		recorder: recorder,
		queries:  queries,
		audit:    audit,
	}
}

// UpdatePriceRequest represents a request to change an entity's price.
// The operator recorded as changed_by comes from JWT claims, never from
// the request body.
type UpdatePriceRequest struct {
	NewPrice *decimal.Decimal `json:"new_price" binding:"required,gte=0"`
	Reason   string           `json:"reason" binding:"max=2000"`
}

// MismatchQuery bounds an audit mismatch listing
type MismatchQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// GetProductHistory returns a page of a product's ledger entries, newest first
func (h *PriceHistoryHandler) GetProductHistory(c *gin.Context) {
	h.history(c, h.queries.ProductHistory)
}

// GetVariantHistory returns a page of a variant's ledger entries, newest first
func (h *PriceHistoryHandler) GetVariantHistory(c *gin.Context) {
	h.history(c, h.queries.VariantHistory)
}

func (h *PriceHistoryHandler) history(
	c *gin.Context,
	list func(ctx context.Context, id uuid.UUID, page shared.Page) (*shared.Paginated[pricingapp.PriceChangeResponse], error),
) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	page, err := bindPage(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := list(c.Request.Context(), id, page)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Limit, result.Offset)
}

// UpdateProductPrice records an admin price change for a product
func (h *PriceHistoryHandler) UpdateProductPrice(c *gin.Context) {
	h.updatePrice(c, pricing.EntityTypeProduct)
}

// UpdateVariantPrice records an admin price change for a variant
func (h *PriceHistoryHandler) UpdateVariantPrice(c *gin.Context) {
	h.updatePrice(c, pricing.EntityTypeVariant)
}

func (h *PriceHistoryHandler) updatePrice(c *gin.Context, entityType pricing.EntityType) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := pricingapp.UpdatePriceRequest{
		NewPrice: *req.NewPrice,
		Source:   pricing.SourceAdmin,
		Reason:   req.Reason,
	}
	if userID, err := getUserID(c); err == nil {
		appReq.ChangedBy = &userID
	}

	var result *pricingapp.PriceUpdateResult
	if entityType == pricing.EntityTypeProduct {
		result, err = h.recorder.UpdateProductPrice(c.Request.Context(), id, appReq)
	} else {
		result, err = h.recorder.UpdateVariantPrice(c.Request.Context(), id, appReq)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Recalculate sweeps every product and variant, recomputing the stored
// rolling lowest price from the ledger
func (h *PriceHistoryHandler) Recalculate(c *gin.Context) {
	report, err := h.audit.RecalcAll(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, report)
}

// GetMismatches reports entities whose stored lowest price drifted from
// the value recomputed over their ledger, without correcting them
func (h *PriceHistoryHandler) GetMismatches(c *gin.Context) {
	var query MismatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mismatches, err := h.audit.FindMismatches(c.Request.Context(), query.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, mismatches)
}

func bindPage(c *gin.Context) (shared.Page, error) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Page{}, err
	}
	return shared.Page{Limit: req.Limit, Offset: req.Offset}, nil
}
