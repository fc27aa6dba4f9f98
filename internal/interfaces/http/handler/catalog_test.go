package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

func setupCatalogHandler(
	productRepo *MockProductRepository,
	variantRepo *MockVariantRepository,
	ledger *MockLedger,
) *CatalogHandler {
	service := catalogapp.NewService(productRepo, variantRepo, ledger, zap.NewNop())
	return NewCatalogHandler(service)
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCatalogHandler_CreateProduct_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	productRepo.On("ExistsBySKU", mock.Anything, "SKU-001").Return(false, nil)
	ledger.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product"), mock.AnythingOfType("*pricing.PriceChange")).Return(nil)

	router := setupTestRouter()
	router.POST("/catalog/products", handler.CreateProduct)

	price := decimal.NewFromFloat(19.99)
	w := postJSON(router, "/catalog/products", CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Test Product",
		InitialPrice: &price,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	productRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestCatalogHandler_CreateProduct_ZeroPriceAllowed(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	productRepo.On("ExistsBySKU", mock.Anything, "FREE-001").Return(false, nil)
	ledger.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	router := setupTestRouter()
	router.POST("/catalog/products", handler.CreateProduct)

	price := decimal.Zero
	w := postJSON(router, "/catalog/products", CreateProductRequest{
		SKU:          "FREE-001",
		Name:         "Free Sample",
		InitialPrice: &price,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCatalogHandler_CreateProduct_MissingPrice(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	router := setupTestRouter()
	router.POST("/catalog/products", handler.CreateProduct)

	w := postJSON(router, "/catalog/products", map[string]any{
		"sku":  "SKU-001",
		"name": "Test Product",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_CreateProduct_NegativePrice(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	router := setupTestRouter()
	router.POST("/catalog/products", handler.CreateProduct)

	price := decimal.NewFromInt(-5)
	w := postJSON(router, "/catalog/products", CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Test Product",
		InitialPrice: &price,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_CreateProduct_DuplicateSKU(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	productRepo.On("ExistsBySKU", mock.Anything, "SKU-001").Return(true, nil)

	router := setupTestRouter()
	router.POST("/catalog/products", handler.CreateProduct)

	price := decimal.NewFromInt(10)
	w := postJSON(router, "/catalog/products", CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Test Product",
		InitialPrice: &price,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_GetProduct_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	product := createTestProduct()
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.GET("/catalog/products/:id", handler.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/catalog/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestCatalogHandler_GetProduct_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	id := uuid.New()
	productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/catalog/products/:id", handler.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/catalog/products/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_GetProduct_InvalidID(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	router := setupTestRouter()
	router.GET("/catalog/products/:id", handler.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/catalog/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_ListProducts_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	products := []catalog.Product{*createTestProduct(), *createTestProduct()}
	productRepo.On("List", mock.Anything, mock.AnythingOfType("shared.Page")).Return(products, int64(2), nil)

	router := setupTestRouter()
	router.GET("/catalog/products", handler.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/catalog/products?limit=10&offset=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestCatalogHandler_CreateVariant_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	product := createTestProduct()
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	variantRepo.On("ExistsBySKU", mock.Anything, "SKU-001-L").Return(false, nil)
	ledger.On("Create", mock.Anything, mock.AnythingOfType("*catalog.ProductVariant"), mock.AnythingOfType("*pricing.PriceChange")).Return(nil)

	router := setupTestRouter()
	router.POST("/catalog/products/:id/variants", handler.CreateVariant)

	price := decimal.NewFromInt(25)
	w := postJSON(router, "/catalog/products/"+product.ID.String()+"/variants", CreateVariantRequest{
		SKU:          "SKU-001-L",
		Name:         "Large",
		InitialPrice: &price,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	variantRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestCatalogHandler_CreateVariant_UnknownProduct(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	id := uuid.New()
	productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/catalog/products/:id/variants", handler.CreateVariant)

	price := decimal.NewFromInt(25)
	w := postJSON(router, "/catalog/products/"+id.String()+"/variants", CreateVariantRequest{
		SKU:          "SKU-001-L",
		Name:         "Large",
		InitialPrice: &price,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_ListVariants_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	product := createTestProduct()
	variants := []catalog.ProductVariant{*createTestVariant(product.ID)}
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	variantRepo.On("FindByProduct", mock.Anything, product.ID).Return(variants, nil)

	router := setupTestRouter()
	router.GET("/catalog/products/:id/variants", handler.ListVariants)

	req := httptest.NewRequest(http.MethodGet, "/catalog/products/"+product.ID.String()+"/variants", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	variantRepo.AssertExpectations(t)
}

func TestCatalogHandler_GetVariant_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	id := uuid.New()
	variantRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/catalog/variants/:id", handler.GetVariant)

	req := httptest.NewRequest(http.MethodGet, "/catalog/variants/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func putJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCatalogHandler_UpdateProduct_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	product := createTestProduct()
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.PUT("/catalog/products/:id", handler.UpdateProduct)

	name := "Renamed Product"
	w := putJSON(router, "/catalog/products/"+product.ID.String(), UpdateProductRequest{Name: &name})

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)

	var resp struct {
		Data struct {
			Name    string `json:"name"`
			Version int    `json:"version"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Renamed Product", resp.Data.Name)
	assert.Equal(t, 2, resp.Data.Version)
}

func TestCatalogHandler_UpdateProduct_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	id := uuid.New()
	productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.PUT("/catalog/products/:id", handler.UpdateProduct)

	name := "Renamed Product"
	w := putJSON(router, "/catalog/products/"+id.String(), UpdateProductRequest{Name: &name})

	assert.Equal(t, http.StatusNotFound, w.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCatalogHandler_UpdateProduct_BlankNameRejected(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	router := setupTestRouter()
	router.PUT("/catalog/products/:id", handler.UpdateProduct)

	name := ""
	w := putJSON(router, "/catalog/products/"+uuid.NewString(), UpdateProductRequest{Name: &name})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCatalogHandler_DeactivateProduct_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	product := createTestProduct()
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/catalog/products/:id/deactivate", handler.DeactivateProduct)

	w := postJSON(router, "/catalog/products/"+product.ID.String()+"/deactivate", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "inactive", resp.Data.Status)
}

func TestCatalogHandler_DeactivateProduct_AlreadyInactive(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	product := createTestProduct()
	product.Deactivate()
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.POST("/catalog/products/:id/deactivate", handler.DeactivateProduct)

	w := postJSON(router, "/catalog/products/"+product.ID.String()+"/deactivate", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCatalogHandler_UpdateVariant_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	variantRepo := new(MockVariantRepository)
	ledger := new(MockLedger)
	handler := setupCatalogHandler(productRepo, variantRepo, ledger)

	variant := createTestVariant(uuid.New())
	variantRepo.On("FindByID", mock.Anything, variant.ID).Return(variant, nil)
	variantRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ProductVariant")).Return(nil)

	router := setupTestRouter()
	router.PUT("/catalog/variants/:id", handler.UpdateVariant)

	name := "Extra Large"
	w := putJSON(router, "/catalog/variants/"+variant.ID.String(), UpdateVariantRequest{Name: &name})

	assert.Equal(t, http.StatusOK, w.Code)
	variantRepo.AssertExpectations(t)
}
