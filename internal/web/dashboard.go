package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/views"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := &struct {
		PageData
		Cards []views.Card
	}{PageData: s.page(r, "Dashboard")}

	d, err := views.LoadDashboard(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to load dashboard", "error", err)
		data.Level, data.Message = holds.LevelError, "Failed to load dashboard counts."
	} else {
		data.Cards = d.Cards()
	}

	s.Templates.Render(w, "dashboard.html", data)
}
