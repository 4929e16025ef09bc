package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/carina/internal/db"
	"github.com/erazemk/carina/internal/model"
)

func TestEnsureConsignment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, created, err := EnsureConsignment(ctx, database, "CSG-2024-0001", "Acme", "2024-01-15")
	if err != nil {
		t.Fatalf("EnsureConsignment: %v", err)
	}
	if !created {
		t.Error("expected first call to create")
	}
	if c.Status != model.ConsignmentStatusHeld {
		t.Errorf("expected new consignment to be held, got %q", c.Status)
	}
	if c.ExaminationDate != "2024-01-15" {
		t.Errorf("expected examination date to round-trip, got %q", c.ExaminationDate)
	}

	again, created, err := EnsureConsignment(ctx, database, "CSG-2024-0001", "Other", "2024-02-01")
	if err != nil {
		t.Fatalf("EnsureConsignment again: %v", err)
	}
	if created {
		t.Error("expected second call to reuse the consignment")
	}
	if again.ID != c.ID {
		t.Errorf("expected same id %d, got %d", c.ID, again.ID)
	}
	if again.Importer != "Acme" || again.ExaminationDate != "2024-01-15" {
		t.Errorf("expected existing consignment unchanged, got %+v", again)
	}

	n, _ := CountConsignments(ctx, database, "")
	if n != 1 {
		t.Errorf("expected 1 consignment, got %d", n)
	}
}

func TestGetConsignmentByCodeMissing(t *testing.T) {
	database := db.NewTestDB(t)

	c, err := GetConsignmentByCode(context.Background(), database, "NOPE")
	if err != nil {
		t.Fatalf("GetConsignmentByCode: %v", err)
	}
	if c != nil {
		t.Error("expected nil for unknown code")
	}
}

func TestUpdateConsignmentStatusAndCount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := mustConsignment(t, database, "A")
	mustConsignment(t, database, "B")

	if err := UpdateConsignmentStatus(ctx, database, a.ID, model.ConsignmentStatusPartial); err != nil {
		t.Fatalf("UpdateConsignmentStatus: %v", err)
	}

	got, _ := GetConsignment(ctx, database, a.ID)
	if got.Status != model.ConsignmentStatusPartial {
		t.Errorf("expected partial, got %q", got.Status)
	}

	partial, _ := CountConsignments(ctx, database, model.ConsignmentStatusPartial)
	held, _ := CountConsignments(ctx, database, model.ConsignmentStatusHeld)
	if partial != 1 || held != 1 {
		t.Errorf("expected 1 partial and 1 held, got %d and %d", partial, held)
	}

	if err := UpdateConsignmentStatus(ctx, database, a.ID, "bogus"); err == nil {
		t.Error("expected CHECK constraint to reject unknown status")
	}
}

func TestListConsignmentSummaries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first := mustConsignment(t, database, "FIRST")
	second := mustConsignment(t, database, "SECOND")
	mustHeldItem(t, database, first.ID, "a")
	mustHeldItem(t, database, first.ID, "b")

	list, err := ListConsignmentSummaries(ctx, database)
	if err != nil {
		t.Fatalf("ListConsignmentSummaries: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	// Same-second timestamps fall back to id order, newest first.
	if list[0].ID != second.ID {
		t.Errorf("expected newest first, got %q", list[0].Code)
	}
	if list[0].ItemCount != 0 || list[1].ItemCount != 2 {
		t.Errorf("unexpected item counts: %d, %d", list[0].ItemCount, list[1].ItemCount)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, database, func(tx *sql.Tx) error {
		mustConsignment(t, tx, "ROLLBACK")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	c, _ := GetConsignmentByCode(ctx, database, "ROLLBACK")
	if c != nil {
		t.Error("expected consignment to be rolled back")
	}

	err = WithTx(ctx, database, func(tx *sql.Tx) error {
		mustConsignment(t, tx, "COMMIT")
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	c, _ = GetConsignmentByCode(ctx, database, "COMMIT")
	if c == nil {
		t.Error("expected committed consignment")
	}
}
