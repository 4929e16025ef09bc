// Package views builds the read-only projections shown on screens: the
// dashboard, the consignment history, release candidates and the
// consignment detail page.
package views

import (
	"context"
	"database/sql"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

// Dashboard holds the headline counts, recomputed on every load.
type Dashboard struct {
	ActiveConsignments int `json:"activeConsignments"`
	ItemsHeld          int `json:"itemsHeld"`
	ItemsReleased      int `json:"itemsReleased"`
	PendingReview      int `json:"pendingReview"`
}

// Card is one tile of the dashboard.
type Card struct {
	Label   string
	Value   int
	Subtext string
	Tone    string
}

// Cards lays the counts out as dashboard tiles.
func (d Dashboard) Cards() []Card {
	return []Card{
		{Label: "Active Consignments", Value: d.ActiveConsignments, Tone: "blue"},
		{Label: "Items Held", Value: d.ItemsHeld, Tone: "red"},
		{Label: "Items Released", Value: d.ItemsReleased, Subtext: "Total", Tone: "green"},
		{Label: "Pending Review", Value: d.PendingReview, Subtext: "Requires attention", Tone: "amber"},
	}
}

// LoadDashboard runs the four count queries concurrently.
func LoadDashboard(ctx context.Context, db *sql.DB) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.ActiveConsignments, err = store.CountConsignments(ctx, db, "")
		return err
	})
	g.Go(func() (err error) {
		d.ItemsHeld, err = store.CountHeldItems(ctx, db, model.ItemStatusHeld)
		return err
	})
	g.Go(func() (err error) {
		d.ItemsReleased, err = store.CountHeldItems(ctx, db, model.ItemStatusReleased)
		return err
	})
	g.Go(func() (err error) {
		d.PendingReview, err = store.CountConsignments(ctx, db, model.ConsignmentStatusPartial)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
