package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/views"
)

// ConsignmentsHandler serves the read-only projections.
type ConsignmentsHandler struct {
	DB *sql.DB
	// Now is used for the default history window; time.Now when nil.
	Now func() time.Time
}

func (h *ConsignmentsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Dashboard handles GET /api/dashboard.
func (h *ConsignmentsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := views.LoadDashboard(r.Context(), h.DB)
	if err != nil {
		slog.Error("loading dashboard", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// List handles GET /api/consignments.
func (h *ConsignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := views.ParseHistoryFilter(r.URL.Query(), h.now())
	hist, err := views.LoadHistory(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("loading history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load consignments")
		return
	}
	jsonResponse(w, http.StatusOK, hist)
}

// Get handles GET /api/consignments/{code}.
func (h *ConsignmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := views.LoadConsignmentDetail(r.Context(), h.DB, r.PathValue("code"))
	if err != nil {
		slog.Error("loading consignment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load consignment")
		return
	}
	if detail == nil {
		jsonError(w, http.StatusNotFound, "Consignment not found")
		return
	}
	jsonResponse(w, http.StatusOK, detail)
}

type referenceResponse struct {
	HoldReasons    []model.Option `json:"holdReasons"`
	ReleaseReasons []model.Option `json:"releaseReasons"`
	QuantityUnits  []model.Option `json:"quantityUnits"`
	Currencies     []model.Option `json:"currencies"`
	HoldDurations  []model.Option `json:"holdDurations"`
	Statuses       []string       `json:"statuses"`
}

// Reference handles GET /api/reference.
func (h *ConsignmentsHandler) Reference(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, referenceResponse{
		HoldReasons:    model.HoldReasons,
		ReleaseReasons: model.ReleaseReasons,
		QuantityUnits:  model.QuantityUnits,
		Currencies:     model.Currencies,
		HoldDurations:  model.HoldDurations,
		Statuses: []string{
			model.ConsignmentStatusHeld,
			model.ConsignmentStatusPartial,
			model.ConsignmentStatusReleased,
		},
	})
}

// NotImplemented answers the release document and report export endpoints,
// which have no implementation yet.
func NotImplemented(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusNotImplemented, "not implemented")
}
