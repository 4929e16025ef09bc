package views

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

// DefaultHistoryWindow is how far back the history listing reaches unless
// the user picks other dates.
const DefaultHistoryWindow = 30 * 24 * time.Hour

const dateLayout = "2006-01-02"

// HistoryFilter narrows the consignment history. Empty fields do not filter.
type HistoryFilter struct {
	// Query matches any part of the consignment code, ignoring case.
	Query string `json:"q"`
	// From and To bound the examination date, inclusive.
	From string `json:"from"`
	To   string `json:"to"`
	// Status is a consignment status, or "all".
	Status string `json:"status"`
}

// DefaultHistoryFilter covers the last 30 days through today.
func DefaultHistoryFilter(now time.Time) HistoryFilter {
	return HistoryFilter{
		From:   now.Add(-DefaultHistoryWindow).Format(dateLayout),
		To:     now.Format(dateLayout),
		Status: "all",
	}
}

// ParseHistoryFilter reads a filter from query parameters q, from, to and
// status. Parameters that are absent keep their default; parameters present
// but empty clear it.
func ParseHistoryFilter(v url.Values, now time.Time) HistoryFilter {
	f := DefaultHistoryFilter(now)
	if v.Has("q") {
		f.Query = strings.TrimSpace(v.Get("q"))
	}
	if v.Has("from") {
		f.From = strings.TrimSpace(v.Get("from"))
	}
	if v.Has("to") {
		f.To = strings.TrimSpace(v.Get("to"))
	}
	if v.Has("status") {
		f.Status = v.Get("status")
	}
	return f
}

// Matches reports whether a row passes the filter.
func (f HistoryFilter) Matches(r HistoryRow) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(r.Code), strings.ToLower(f.Query)) {
		return false
	}
	if f.From != "" && r.ExaminationDate < f.From {
		return false
	}
	if f.To != "" && r.ExaminationDate > f.To {
		return false
	}
	if f.Status != "" && f.Status != "all" && r.Status != f.Status {
		return false
	}
	return true
}

// Apply returns the rows passing the filter, keeping their order.
func (f HistoryFilter) Apply(rows []HistoryRow) []HistoryRow {
	out := []HistoryRow{}
	for _, r := range rows {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// HistoryRow is one consignment in the history listing.
type HistoryRow struct {
	Code            string `json:"id"`
	Importer        string `json:"importer"`
	ExaminationDate string `json:"examinationDate"`
	ItemCount       int    `json:"itemCount"`
	Status          string `json:"status"`
	LastUpdated     string `json:"lastUpdated"`
}

// History is a filtered history listing. Total counts every consignment
// before filtering.
type History struct {
	Filter HistoryFilter `json:"filter"`
	Rows   []HistoryRow  `json:"rows"`
	Total  int           `json:"total"`
}

// HistoryRows reshapes consignment summaries into history rows.
func HistoryRows(list []model.ConsignmentSummary) []HistoryRow {
	rows := make([]HistoryRow, 0, len(list))
	for _, c := range list {
		rows = append(rows, HistoryRow{
			Code:            c.Code,
			Importer:        c.Importer,
			ExaminationDate: c.ExaminationDate,
			ItemCount:       c.ItemCount,
			Status:          c.Status,
			LastUpdated:     c.UpdatedAt.Format(dateLayout),
		})
	}
	return rows
}

// LoadHistory lists every consignment, newest first, and applies the filter.
func LoadHistory(ctx context.Context, db *sql.DB, f HistoryFilter) (*History, error) {
	list, err := store.ListConsignmentSummaries(ctx, db)
	if err != nil {
		return nil, err
	}
	all := HistoryRows(list)
	return &History{Filter: f, Rows: f.Apply(all), Total: len(all)}, nil
}
