package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/carina/internal/model"
)

func mustConsignment(t *testing.T, q Querier, code string) *model.Consignment {
	t.Helper()
	c, _, err := EnsureConsignment(context.Background(), q, code, "Acme Imports", "2024-01-15")
	if err != nil {
		t.Fatalf("EnsureConsignment: %v", err)
	}
	return c
}

func mustHeldItem(t *testing.T, q Querier, consignmentID int64, description string) *model.HeldItem {
	t.Helper()
	it, err := CreateHeldItem(context.Background(), q, model.NewHeldItem{
		ConsignmentID: consignmentID,
		Description:   description,
		HSCode:        "8471.30",
		Quantity:      10,
		QuantityUnit:  "units",
		HoldReason:    "inspection",
		Warehouse:     "W1",
	})
	if err != nil {
		t.Fatalf("CreateHeldItem: %v", err)
	}
	return it
}

var _ Querier = (*sql.DB)(nil)
var _ Querier = (*sql.Tx)(nil)
