package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/BackofficeGo/internal/pdf"
	"github.com/utafrali/BackofficeGo/internal/service"
	"github.com/utafrali/BackofficeGo/pkg/pagination"
	"github.com/utafrali/BackofficeGo/pkg/validator"
)

// PurchaseHandler handles HTTP requests for purchase endpoints.
type PurchaseHandler struct {
	service *service.PurchaseService
	logger  *slog.Logger
}

// NewPurchaseHandler creates a new purchase HTTP handler.
func NewPurchaseHandler(svc *service.PurchaseService, logger *slog.Logger) *PurchaseHandler {
	return &PurchaseHandler{service: svc, logger: logger}
}

// CreatePurchaseRequest is the JSON request body for recording a purchase.
type CreatePurchaseRequest struct {
	CustomerName string                      `json:"customer_name" validate:"required,min=1,max=200"`
	Date         time.Time                   `json:"date"`
	Lines        []CreatePurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePurchaseLineRequest is a single line item in a purchase request.
type CreatePurchaseLineRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// Create handles POST /api/v1/purchases
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.CreatePurchaseInput{
		CustomerName: req.CustomerName,
		Date:         req.Date,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.CreatePurchaseLineInput{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			Description: line.Description,
		})
	}

	purchase, err := h.service.CreatePurchase(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: purchase})
}

// List handles GET /api/v1/purchases
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.service.ListPurchases(r.Context(), params)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// Get handles GET /api/v1/purchases/{id}
func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := purchaseIDParam(w, r)
	if !ok {
		return
	}

	purchase, err := h.service.GetPurchase(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: purchase})
}

// ExportPDF handles GET /api/v1/purchases/{id}/export-pdf
func (h *PurchaseHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := purchaseIDParam(w, r)
	if !ok {
		return
	}

	purchase, err := h.service.GetPurchase(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	doc, err := pdf.RenderPurchase(purchase)
	if err != nil {
		h.logger.Error("render purchase pdf", "purchase_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, response{
			Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "failed to render document"},
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=purchase-%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// purchaseIDParam extracts and validates the {id} path parameter. Purchase
// ids are UUIDs; rejecting malformed ones here keeps bad input from reaching
// the database as a type error.
func purchaseIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "purchase id is required"},
		})
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "purchase id must be a valid UUID"},
		})
		return "", false
	}
	return id, true
}
