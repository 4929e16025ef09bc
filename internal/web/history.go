package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/views"
)

// HistoryPage handles GET /history.
func (s *Server) HistoryPage(w http.ResponseWriter, r *http.Request) {
	filter := views.ParseHistoryFilter(r.URL.Query(), s.now())
	data := &struct {
		PageData
		History  *views.History
		Statuses []string
	}{
		PageData: s.page(r, "Consignment history"),
		History:  &views.History{Filter: filter},
		Statuses: []string{"all", "held", "partial", "released"},
	}

	hist, err := views.LoadHistory(r.Context(), s.DB, filter)
	if err != nil {
		slog.Error("failed to load history", "error", err)
		data.Level, data.Message = holds.LevelError, "Failed to load consignment history."
	} else {
		data.History = hist
	}

	s.Templates.Render(w, "history.html", data)
}
