package holds

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/metrics"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

// SearchResult is a consignment loaded for release.
type SearchResult struct {
	Consignment *model.Consignment
	// Items holds every item of the consignment, held or released.
	Items []model.HeldItem
	// Candidates holds the items still held, which may be selected.
	Candidates []model.HeldItem
	Level      Level
	Message    string
}

// Search loads a consignment by code together with its items and their
// identifiers.
func Search(ctx context.Context, db *sql.DB, code string) (*SearchResult, error) {
	if errs := forms.ValidateSearch(code); !errs.Valid() {
		return nil, &ValidationError{Fields: errs}
	}
	code = strings.TrimSpace(code)

	c, err := store.GetConsignmentByCode(ctx, db, code)
	if err != nil {
		return nil, searchFailed(code, err)
	}
	if c == nil {
		return nil, ErrConsignmentNotFound
	}

	items, err := store.ListHeldItems(ctx, db, c.ID)
	if err != nil {
		return nil, searchFailed(code, err)
	}

	res := &SearchResult{Consignment: c, Items: items, Candidates: []model.HeldItem{}}
	for _, it := range items {
		if it.Status == model.ItemStatusHeld {
			res.Candidates = append(res.Candidates, it)
		}
	}

	if len(res.Candidates) == 0 {
		res.Level, res.Message = LevelWarning, MsgNoHeldItems
	} else {
		res.Level = LevelSuccess
		res.Message = fmt.Sprintf("Consignment found! %d held items loaded for release.", len(res.Candidates))
	}
	return res, nil
}

func searchFailed(code string, err error) error {
	slog.Error("searching consignment", "code", code, "error", err)
	metrics.OperationErrors.WithLabelValues(metrics.OpSearch).Inc()
	return fmt.Errorf("%w: %w", ErrSearchFailed, err)
}
