package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/views"
)

// HoldsHandler handles the hold, search and release operations.
type HoldsHandler struct {
	DB *sql.DB
}

type registerResponse struct {
	Message     string             `json:"message"`
	Created     bool               `json:"created"`
	Consignment *model.Consignment `json:"consignment"`
	Item        *model.HeldItem    `json:"item"`
}

type searchResponse struct {
	Level       holds.Level          `json:"level"`
	Message     string               `json:"message"`
	Consignment *model.Consignment   `json:"consignment"`
	Candidates  []views.CandidateRow `json:"candidates"`
	Items       []views.CandidateRow `json:"items"`
}

type releaseResponse struct {
	Message     string                `json:"message"`
	BatchID     string                `json:"batchId"`
	Consignment *model.Consignment    `json:"consignment"`
	Records     []model.ReleaseRecord `json:"records"`
}

// writeHoldsError maps a lifecycle error to a response.
func writeHoldsError(w http.ResponseWriter, err error) {
	var verr *holds.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonFieldErrors(w, holds.Message(err), verr.Fields)
	case errors.Is(err, holds.ErrNoItemsSelected):
		jsonError(w, http.StatusBadRequest, holds.Message(err))
	case errors.Is(err, holds.ErrConsignmentNotFound):
		jsonError(w, http.StatusNotFound, holds.Message(err))
	case errors.Is(err, holds.ErrItemNotHeld):
		jsonError(w, http.StatusConflict, holds.Message(err))
	default:
		jsonError(w, http.StatusInternalServerError, holds.Message(err))
	}
}

// Register handles POST /api/holds.
func (h *HoldsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var f forms.HoldForm
	if err := decodeJSON(r, &f); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reg, err := holds.Register(r.Context(), h.DB, f, GetClaims(r.Context()).UserID)
	if err != nil {
		writeHoldsError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, registerResponse{
		Message:     holds.MsgRegistered,
		Created:     reg.Created,
		Consignment: reg.Consignment,
		Item:        reg.Item,
	})
}

// Candidates handles GET /api/consignments/{code}/candidates.
func (h *HoldsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	res, err := holds.Search(r.Context(), h.DB, r.PathValue("code"))
	if err != nil {
		writeHoldsError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, searchResponse{
		Level:       res.Level,
		Message:     res.Message,
		Consignment: res.Consignment,
		Candidates:  views.CandidateRows(res.Candidates),
		Items:       views.CandidateRows(res.Items),
	})
}

// Release handles POST /api/releases.
func (h *HoldsHandler) Release(w http.ResponseWriter, r *http.Request) {
	var f forms.ReleaseForm
	if err := decodeJSON(r, &f); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := holds.Release(r.Context(), h.DB, f, GetClaims(r.Context()).UserID)
	if err != nil {
		writeHoldsError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, releaseResponse{
		Message:     holds.MsgReleased,
		BatchID:     res.BatchID,
		Consignment: res.Consignment,
		Records:     res.Records,
	})
}
