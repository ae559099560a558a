package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/internal/service"
	apperrors "github.com/utafrali/BackofficeGo/pkg/errors"
)

// --- Mock PurchaseRepository ---

type mockPurchaseRepository struct {
	mock.Mock
}

func (m *mockPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *mockPurchaseRepository) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *mockPurchaseRepository) List(ctx context.Context, limit, offset int) ([]domain.Purchase, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Purchase), args.Int(1), args.Error(2)
}

// --- Mock ProductRepository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) SearchActive(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// --- Test Helpers ---

func testPurchaseHandler(purchaseRepo *mockPurchaseRepository, productRepo *mockProductRepository) *PurchaseHandler {
	svc := service.NewPurchaseService(purchaseRepo, productRepo, testEventProducer(), testLogger())
	return NewPurchaseHandler(svc, testLogger())
}

// setupPurchaseRouter creates a chi router matching the production route layout.
func setupPurchaseRouter(handler *PurchaseHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/purchases", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/{id}", handler.Get)
		r.Get("/{id}/export-pdf", handler.ExportPDF)
	})
	return r
}

// Purchase ids are UUIDs in the route contract.
const (
	testPurchaseID    = "3f7c2a7e-1b9d-4f6a-9c1e-2d8b5a4e7f01"
	missingPurchaseID = "9e4d1c2b-5a6f-4e3d-8b7a-1f0c9d8e7a02"
)

func testCatalog() []domain.Product {
	now := time.Now().UTC()
	return []domain.Product{
		{ID: "prod-001", Name: "Widget", SKU: "WID-001", Price: 7500, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-002", Name: "Gadget", SKU: "GAD-002", Price: 2500, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
}

func storedPurchase() *domain.Purchase {
	now := time.Now().UTC()
	return &domain.Purchase{
		ID:           testPurchaseID,
		CustomerName: "Acme Corp",
		Date:         now,
		Total:        12500,
		Lines: []domain.PurchaseLine{
			{ID: "line-001", PurchaseID: testPurchaseID, ProductID: "prod-001", ProductName: "Widget", Quantity: 1, UnitPrice: 7500},
			{ID: "line-002", PurchaseID: testPurchaseID, ProductID: "prod-002", ProductName: "Gadget", Quantity: 2, UnitPrice: 2500},
		},
		CreatedAt: now,
	}
}

// ============================================================================
// POST /api/v1/purchases
// ============================================================================

func TestCreatePurchaseEndpoint_Success(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	productRepo.On("GetActiveByIDs", mock.Anything, []string{"prod-001", "prod-002"}).Return(testCatalog(), nil)
	purchaseRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Purchase")).Return(nil)

	rec := postJSON(t, router, "/api/v1/purchases", CreatePurchaseRequest{
		CustomerName: "Acme Corp",
		Lines: []CreatePurchaseLineRequest{
			{ProductID: "prod-001", Quantity: 2},
			{ProductID: "prod-002", Quantity: 1, Description: "Gift wrapped"},
		},
	}, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", data["customer_name"])
	// Prices are frozen from the catalog: 2*7500 + 1*2500.
	assert.Equal(t, float64(17500), data["total"])

	purchaseRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCreatePurchaseEndpoint_ValidationError(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	rec := postJSON(t, router, "/api/v1/purchases", CreatePurchaseRequest{
		CustomerName: "",
		Lines:        []CreatePurchaseLineRequest{},
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	purchaseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePurchaseEndpoint_InvalidJSON(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestCreatePurchaseEndpoint_UnknownProduct(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	productRepo.On("GetActiveByIDs", mock.Anything, []string{"prod-404"}).Return([]domain.Product{}, nil)

	rec := postJSON(t, router, "/api/v1/purchases", CreatePurchaseRequest{
		CustomerName: "Acme Corp",
		Lines: []CreatePurchaseLineRequest{
			{ProductID: "prod-404", Quantity: 1},
		},
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "missing or inactive")
}

func TestCreatePurchaseEndpoint_DateTooFarAhead(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	rec := postJSON(t, router, "/api/v1/purchases", CreatePurchaseRequest{
		CustomerName: "Acme Corp",
		Date:         time.Now().UTC().Add(48 * time.Hour),
		Lines: []CreatePurchaseLineRequest{
			{ProductID: "prod-001", Quantity: 1},
		},
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// ============================================================================
// GET /api/v1/purchases
// ============================================================================

func TestListPurchasesEndpoint_Success(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	purchaseRepo.On("List", mock.Anything, 20, 0).Return([]domain.Purchase{*storedPurchase()}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total_count"])
	assert.Equal(t, float64(1), data["page"])
}

func TestListPurchasesEndpoint_CustomPagination(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	purchaseRepo.On("List", mock.Anything, 5, 10).Return([]domain.Purchase{}, 42, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases?page=3&per_page=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	purchaseRepo.AssertExpectations(t)
}

// ============================================================================
// GET /api/v1/purchases/{id}
// ============================================================================

func TestGetPurchaseEndpoint_Success(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	purchaseRepo.On("GetByID", mock.Anything, testPurchaseID).Return(storedPurchase(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/"+testPurchaseID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, testPurchaseID, data["id"])
	lines, ok := data["lines"].([]interface{})
	require.True(t, ok)
	assert.Len(t, lines, 2)
}

func TestGetPurchaseEndpoint_NotFound(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	purchaseRepo.On("GetByID", mock.Anything, missingPurchaseID).Return(nil, apperrors.NotFound("purchase", missingPurchaseID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/"+missingPurchaseID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetPurchaseEndpoint_MalformedID(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "valid UUID")

	// A malformed id never reaches the store.
	purchaseRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/purchases/{id}/export-pdf
// ============================================================================

func TestExportPurchasePDFEndpoint_Success(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	purchaseRepo.On("GetByID", mock.Anything, testPurchaseID).Return(storedPurchase(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/"+testPurchaseID+"/export-pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "purchase-"+testPurchaseID+".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestExportPurchasePDFEndpoint_NotFound(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	purchaseRepo.On("GetByID", mock.Anything, missingPurchaseID).Return(nil, apperrors.NotFound("purchase", missingPurchaseID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/"+missingPurchaseID+"/export-pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPurchasePDFEndpoint_MalformedID(t *testing.T) {
	purchaseRepo := new(mockPurchaseRepository)
	productRepo := new(mockProductRepository)
	router := setupPurchaseRouter(testPurchaseHandler(purchaseRepo, productRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/not-a-uuid/export-pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)

	purchaseRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
