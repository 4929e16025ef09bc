package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/carina/internal/imaging"
	"github.com/erazemk/carina/internal/store"
	"github.com/erazemk/carina/internal/views"
)

// ConsignmentPage handles GET /consignments/{code}.
func (s *Server) ConsignmentPage(w http.ResponseWriter, r *http.Request) {
	detail, err := views.LoadConsignmentDetail(r.Context(), s.DB, r.PathValue("code"))
	if err != nil {
		slog.Error("failed to load consignment", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if detail == nil {
		http.Error(w, "consignment not found", http.StatusNotFound)
		return
	}

	s.Templates.Render(w, "consignment.html", &struct {
		PageData
		Detail *views.ConsignmentDetail
	}{
		PageData: s.page(r, "Consignment "+detail.Consignment.Code),
		Detail:   detail,
	})
}

// ItemPhoto handles GET /items/{id}/photo.
func (s *Server) ItemPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetHeldItemPhoto(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}

// ItemPhotoSubmit handles POST /items/{id}/photo.
func (s *Server) ItemPhotoSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := store.GetHeldItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get held item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	c, err := store.GetConsignment(r.Context(), s.DB, item.ConsignmentID)
	if err != nil || c == nil {
		slog.Error("failed to get consignment of item", "item_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	photo, err := imaging.Normalize(file)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetHeldItemPhoto(r.Context(), s.DB, id, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save photo", "error", err)
		http.Error(w, "failed to save photo", http.StatusInternalServerError)
		return
	}

	slog.Info("evidence photo uploaded", "user", claims.Username, "code", c.Code, "item_id", id)
	http.Redirect(w, r, fmt.Sprintf("/consignments/%s", url.PathEscape(c.Code)), http.StatusSeeOther)
}
