package views

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

// CandidateRow is a held item as shown in the release table and on the
// consignment detail page.
type CandidateRow struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	HSCode      string   `json:"hsCode"`
	Quantity    string   `json:"quantity"`
	Reason      string   `json:"reason"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	Identifiers []string `json:"identifiers"`
	HasPhoto    bool     `json:"hasPhoto"`
}

// FormatQuantity renders a quantity with its unit, e.g. "10 units".
func FormatQuantity(q float64, unit string) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// FormatLocation joins warehouse, section and shelf with dashes, skipping
// empty parts, e.g. "W1-A-3".
func FormatLocation(warehouse, section, shelf string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{warehouse, section, shelf} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// CandidateRows reshapes held items into display rows.
func CandidateRows(items []model.HeldItem) []CandidateRow {
	rows := make([]CandidateRow, 0, len(items))
	for _, it := range items {
		idents := make([]string, 0, len(it.Identifiers))
		for _, ii := range it.Identifiers {
			idents = append(idents, ii.Identifier)
		}
		rows = append(rows, CandidateRow{
			ID:          it.ID,
			Description: it.Description,
			HSCode:      it.HSCode,
			Quantity:    FormatQuantity(it.Quantity, it.QuantityUnit),
			Reason:      model.Label(model.HoldReasons, it.HoldReason),
			Location:    FormatLocation(it.Warehouse, it.Section, it.Shelf),
			Status:      it.Status,
			Identifiers: idents,
			HasPhoto:    it.PhotoMime != "",
		})
	}
	return rows
}

// ConsignmentDetail is everything known about one consignment.
type ConsignmentDetail struct {
	Consignment *model.Consignment    `json:"consignment"`
	Items       []CandidateRow        `json:"items"`
	Releases    []model.ReleaseRecord `json:"releases"`
}

// LoadConsignmentDetail loads a consignment by code with its items and
// release records. It returns nil if the code is unknown.
func LoadConsignmentDetail(ctx context.Context, db *sql.DB, code string) (*ConsignmentDetail, error) {
	c, err := store.GetConsignmentByCode(ctx, db, strings.TrimSpace(code))
	if err != nil || c == nil {
		return nil, err
	}

	items, err := store.ListHeldItems(ctx, db, c.ID)
	if err != nil {
		return nil, err
	}

	releases, err := store.ListReleaseRecords(ctx, db, c.ID)
	if err != nil {
		return nil, err
	}
	if releases == nil {
		releases = []model.ReleaseRecord{}
	}

	return &ConsignmentDetail{Consignment: c, Items: CandidateRows(items), Releases: releases}, nil
}
