package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/BackofficeGo/internal/pdf"
	"github.com/utafrali/BackofficeGo/internal/service"
	"github.com/utafrali/BackofficeGo/pkg/validator"
)

// PersonHandler handles HTTP requests for the people registry.
type PersonHandler struct {
	service *service.PersonService
	logger  *slog.Logger
}

// NewPersonHandler creates a new person HTTP handler.
func NewPersonHandler(svc *service.PersonService, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{service: svc, logger: logger}
}

// CreatePersonRequest is the JSON request body for registering a person.
type CreatePersonRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Age         int     `json:"age" validate:"min=0,max=150"`
	Height      float64 `json:"height" validate:"required,gt=0"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
}

// Create handles POST /api/v1/people
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreatePersonRequest
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

	person, err := h.service.CreatePerson(r.Context(), service.CreatePersonInput{
		Name:        req.Name,
		Age:         req.Age,
		Height:      req.Height,
		Weight:      req.Weight,
		Description: req.Description,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: person})
}

// List handles GET /api/v1/people
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.ListPeople(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: people})
}

// ExportPDF handles GET /api/v1/people/export-pdf
func (h *PersonHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.ListPeople(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	doc, err := pdf.RenderPeopleList(people)
	if err != nil {
		h.logger.Error("render people pdf", "error", err)
		writeJSON(w, http.StatusInternalServerError, response{
			Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "failed to render document"},
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=people.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
