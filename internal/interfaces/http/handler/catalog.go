package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// CatalogHandler handles product and variant API endpoints
type CatalogHandler struct {
	BaseHandler
	service *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU          string           `json:"sku" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	InitialPrice *decimal.Decimal `json:"initial_price" binding:"required,gte=0"`
}

// UpdateProductRequest represents a request to update a product's
// descriptive fields. Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// CreateVariantRequest represents a request to create a product variant
type CreateVariantRequest struct {
	SKU          string           `json:"sku" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	InitialPrice *decimal.Decimal `json:"initial_price" binding:"required,gte=0"`
}

// UpdateVariantRequest represents a request to rename a variant
type UpdateVariantRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=200"`
}

// CreateProduct creates a product together with its first ledger entry
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateProductRequest{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		InitialPrice: *req.InitialPrice,
	}
	if userID, err := getUserID(c); err == nil {
		appReq.CreatedBy = &userID
	}

	product, err := h.service.CreateProduct(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct updates a product's descriptive fields
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, catalogapp.UpdateProductRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// DeactivateProduct marks a product as no longer sellable
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.service.DeactivateProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// GetProduct returns a product by ID
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// ListProducts returns a page of products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListProducts(c.Request.Context(), page)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Limit, result.Offset)
}

// CreateVariant creates a variant under a product together with its
// first ledger entry
func (h *CatalogHandler) CreateVariant(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateVariantRequest{
		SKU:          req.SKU,
		Name:         req.Name,
		InitialPrice: *req.InitialPrice,
	}
	if userID, err := getUserID(c); err == nil {
		appReq.CreatedBy = &userID
	}

	variant, err := h.service.CreateVariant(c.Request.Context(), productID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, variant)
}

// UpdateVariant renames a variant
func (h *CatalogHandler) UpdateVariant(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	variant, err := h.service.UpdateVariant(c.Request.Context(), id, catalogapp.UpdateVariantRequest{
		Name: req.Name,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, variant)
}

// GetVariant returns a variant by ID
func (h *CatalogHandler) GetVariant(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	variant, err := h.service.GetVariant(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, variant)
}

// ListVariants returns all variants of a product
func (h *CatalogHandler) ListVariants(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	variants, err := h.service.ListVariants(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, variants)
}
