package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/utafrali/BackofficeGo/internal/service"
)

// dateParamLayout is the accepted format for from/to query parameters.
const dateParamLayout = "2006-01-02"

// defaultReportRangeDays is the range used when from/to are omitted.
const defaultReportRangeDays = 30

// ReportHandler handles HTTP requests for reporting endpoints.
type ReportHandler struct {
	service *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report HTTP handler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logger: logger}
}

// Monthly handles GET /api/v1/reports/purchases/monthly?months=
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months, ok := intParam(w, r, "months")
	if !ok {
		return
	}

	buckets, err := h.service.MonthlyPurchases(r.Context(), months)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: buckets})
}

// Daily handles GET /api/v1/reports/purchases/daily?from=&to=
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.DailySales(r.Context(), from, to)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: buckets})
}

// KPIs handles GET /api/v1/reports/purchases/kpis?from=&to=
func (h *ReportHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}

	kpis, err := h.service.SalesKPIs(r.Context(), from, to)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: kpis})
}

// TopProducts handles GET /api/v1/reports/products/top?from=&to=&top=
func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}
	top, ok := intParam(w, r, "top")
	if !ok {
		return
	}

	products, err := h.service.TopProducts(r.Context(), from, to, top)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: products})
}

// intParam parses an optional integer query parameter. A missing parameter
// yields 0, which the service layer replaces with its default.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: name + " must be an integer"},
		})
		return 0, false
	}
	return v, true
}

// dateRangeParams parses the from/to query parameters. When both are
// omitted the range defaults to the last defaultReportRangeDays days.
func dateRangeParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultReportRangeDays)
	to := now

	if fromRaw != "" {
		parsed, err := time.Parse(dateParamLayout, fromRaw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{Code: "INVALID_INPUT", Message: "from must be a date in YYYY-MM-DD format"},
			})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if toRaw != "" {
		parsed, err := time.Parse(dateParamLayout, toRaw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{Code: "INVALID_INPUT", Message: "to must be a date in YYYY-MM-DD format"},
			})
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	return from, to, true
}
