package holds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/carina/internal/db"
	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/metrics"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

var today = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

func holdForm(code, description string) forms.HoldForm {
	f := forms.NewHoldForm(today)
	f.ConsignmentID = code
	f.Importer = "Acme Imports"
	f.ExaminationDate = "2024-01-15"
	f.ItemDescription = description
	f.HSCode = "8471.30"
	f.QuantityHeld = 10
	f.HoldReason = "documentation"
	f.Warehouse = "W1"
	return f
}

func releaseForm(code string, ids ...int64) forms.ReleaseForm {
	f := forms.NewReleaseForm(today)
	f.ConsignmentID = code
	f.ReleaseReference = "REL-2024-001"
	f.ReleaseReason = "inspection_passed"
	f.AuthorizingOfficer = "J. Doe"
	f.SelectedItems = ids
	return f
}

func register(t *testing.T, database *sql.DB, code string, n int) []int64 {
	t.Helper()
	var ids []int64
	for i := range n {
		reg, err := Register(context.Background(), database, holdForm(code, fmt.Sprintf("item %d", i+1)), 0)
		require.NoError(t, err)
		ids = append(ids, reg.Item.ID)
	}
	return ids
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestRegisterNewConsignment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.HoldsRegistered)

	f := holdForm("CSG-2024-0001", "Laptops")
	f.Identifiers = []string{"SN-001", "SN-002"}

	reg, err := Register(ctx, database, f, 0)
	require.NoError(t, err)

	assert.True(t, reg.Created)
	assert.Equal(t, "CSG-2024-0001", reg.Consignment.Code)
	assert.Equal(t, model.ConsignmentStatusHeld, reg.Consignment.Status)
	assert.Equal(t, "Acme Imports", reg.Consignment.Importer)
	assert.Equal(t, model.ItemStatusHeld, reg.Item.Status)
	assert.Equal(t, reg.Consignment.ID, reg.Item.ConsignmentID)
	require.Len(t, reg.Item.Identifiers, 2)
	assert.Equal(t, "SN-001", reg.Item.Identifiers[0].Identifier)

	assert.Equal(t, 1, countRows(t, database, "consignments"))
	assert.Equal(t, 1, countRows(t, database, "held_items"))
	assert.Equal(t, 2, countRows(t, database, "item_identifiers"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HoldsRegistered))
}

func TestRegisterReusesConsignment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := Register(ctx, database, holdForm("CSG-7", "a"), 0)
	require.NoError(t, err)

	f := holdForm("  CSG-7 ", "b")
	f.Importer = "Someone Else"
	second, err := Register(ctx, database, f, 0)
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Consignment.ID, second.Consignment.ID)
	assert.Equal(t, "Acme Imports", second.Consignment.Importer)
	assert.Equal(t, 1, countRows(t, database, "consignments"))
	assert.Equal(t, 2, countRows(t, database, "held_items"))
}

func TestRegisterRejectsInvalidForm(t *testing.T) {
	database := db.NewTestDB(t)

	f := holdForm("CSG-1", "")
	f.QuantityHeld = 0

	_, err := Register(context.Background(), database, f, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, forms.MsgDescription, verr.Fields["itemDescription"])
	assert.Equal(t, forms.MsgQuantity, verr.Fields["quantityHeld"])
	assert.Equal(t, 0, countRows(t, database, "consignments"))
}

func TestRegisterRollsBackOnFailure(t *testing.T) {
	database := db.NewTestDB(t)
	_, err := database.Exec("DROP TABLE item_identifiers")
	require.NoError(t, err)

	f := holdForm("CSG-ROLLBACK", "Phones")
	f.Identifiers = []string{"SN-1"}

	_, err = Register(context.Background(), database, f, 0)
	require.ErrorIs(t, err, ErrRegistrationFailed)
	assert.Equal(t, "Failed to register item. Please try again.", Message(err))

	assert.Equal(t, 0, countRows(t, database, "consignments"))
	assert.Equal(t, 0, countRows(t, database, "held_items"))
}

func TestRegisterOnReleasedConsignmentMakesItPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ids := register(t, database, "CSG-R", 1)
	res, err := Release(ctx, database, releaseForm("CSG-R", ids...), 0)
	require.NoError(t, err)
	require.Equal(t, model.ConsignmentStatusReleased, res.Consignment.Status)

	reg, err := Register(ctx, database, holdForm("CSG-R", "late arrival"), 0)
	require.NoError(t, err)
	assert.Equal(t, model.ConsignmentStatusPartial, reg.Consignment.Status)
}

func TestSearchUnknownConsignment(t *testing.T) {
	database := db.NewTestDB(t)

	res, err := Search(context.Background(), database, "UNKNOWN-CODE")
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrConsignmentNotFound)
	assert.Equal(t, "Consignment not found", Message(err))
	assert.Equal(t, 0, countRows(t, database, "consignments"))
}

func TestSearchRequiresCode(t *testing.T) {
	_, err := Search(context.Background(), db.NewTestDB(t), "  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, forms.MsgConsignmentRequired, verr.Fields["consignmentId"])
}

func TestSearchFindsCandidates(t *testing.T) {
	database := db.NewTestDB(t)
	ids := register(t, database, "CSG-S", 2)

	res, err := Search(context.Background(), database, " CSG-S ")
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Len(t, res.Candidates, 2)
	assert.Equal(t, ids[0], res.Candidates[0].ID)
	assert.Equal(t, LevelSuccess, res.Level)
	assert.Equal(t, "Consignment found! 2 held items loaded for release.", res.Message)
}

func TestSearchFullyReleasedWarns(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-F", 1)

	_, err := Release(ctx, database, releaseForm("CSG-F", ids...), 0)
	require.NoError(t, err)

	res, err := Search(ctx, database, "CSG-F")
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, LevelWarning, res.Level)
	assert.Equal(t, MsgNoHeldItems, res.Message)
}

func TestReleasePartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-P", 3)

	user, err := store.CreateUser(ctx, database, "officer", "hash", model.RoleOfficer)
	require.NoError(t, err)

	res, err := Release(ctx, database, releaseForm("CSG-P", ids[0], ids[1]), user.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ConsignmentStatusPartial, res.Consignment.Status)
	require.Len(t, res.Records, 2)
	for _, r := range res.Records {
		assert.Equal(t, res.BatchID, r.BatchID)
		assert.Equal(t, "REL-2024-001", r.ReleaseReference)
		require.NotNil(t, r.ReleasedBy)
		assert.Equal(t, user.ID, *r.ReleasedBy)
	}
	assert.Equal(t, ids[0], res.Records[0].HeldItemID)
	assert.Equal(t, ids[1], res.Records[1].HeldItemID)

	search, err := Search(ctx, database, "CSG-P")
	require.NoError(t, err)
	require.Len(t, search.Candidates, 1)
	assert.Equal(t, ids[2], search.Candidates[0].ID)
}

func TestReleaseAll(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-A", 2)
	before := testutil.ToFloat64(metrics.ItemsReleased)

	res, err := Release(ctx, database, releaseForm("CSG-A", ids...), 0)
	require.NoError(t, err)

	assert.Equal(t, model.ConsignmentStatusReleased, res.Consignment.Status)
	for _, r := range res.Records {
		assert.Nil(t, r.ReleasedBy)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.ItemsReleased))

	stored, err := store.GetConsignmentByCode(ctx, database, "CSG-A")
	require.NoError(t, err)
	assert.Equal(t, model.ConsignmentStatusReleased, stored.Status)
}

func TestReleaseDuplicateSelection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-D", 2)

	res, err := Release(ctx, database, releaseForm("CSG-D", ids[0], ids[0]), 0)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, ids[0], res.Records[0].HeldItemID)
	assert.Equal(t, model.ConsignmentStatusPartial, res.Consignment.Status)
	assert.Equal(t, 1, countRows(t, database, "release_records"))
}

func TestReleaseInTwoSteps(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-2", 2)

	first, err := Release(ctx, database, releaseForm("CSG-2", ids[0]), 0)
	require.NoError(t, err)
	second, err := Release(ctx, database, releaseForm("CSG-2", ids[1]), 0)
	require.NoError(t, err)

	assert.Equal(t, model.ConsignmentStatusPartial, first.Consignment.Status)
	assert.Equal(t, model.ConsignmentStatusReleased, second.Consignment.Status)
	assert.NotEqual(t, first.BatchID, second.BatchID)
}

func TestReleaseRequiresSelection(t *testing.T) {
	database := db.NewTestDB(t)

	// The selection check comes before validation and the store.
	_, err := Release(context.Background(), database, forms.ReleaseForm{}, 0)
	require.ErrorIs(t, err, ErrNoItemsSelected)
	assert.Equal(t, "Please select at least one item to release.", Message(err))
}

func TestReleaseRejectsInvalidForm(t *testing.T) {
	database := db.NewTestDB(t)
	ids := register(t, database, "CSG-V", 1)

	f := releaseForm("CSG-V", ids...)
	f.AuthorizingOfficer = ""

	_, err := Release(context.Background(), database, f, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, forms.Errors{"authorizingOfficer": forms.MsgOfficer}, verr.Fields)
	assert.Equal(t, 0, countRows(t, database, "release_records"))
}

func TestReleaseUnknownConsignment(t *testing.T) {
	_, err := Release(context.Background(), db.NewTestDB(t), releaseForm("NOPE", 1), 0)
	require.ErrorIs(t, err, ErrConsignmentNotFound)
}

func TestReleaseResubmitIsRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-RETRY", 2)

	f := releaseForm("CSG-RETRY", ids[0])
	_, err := Release(ctx, database, f, 0)
	require.NoError(t, err)

	_, err = Release(ctx, database, f, 0)
	require.ErrorIs(t, err, ErrItemNotHeld)
	assert.Equal(t, 1, countRows(t, database, "release_records"))

	c, _ := store.GetConsignmentByCode(ctx, database, "CSG-RETRY")
	assert.Equal(t, model.ConsignmentStatusPartial, c.Status)
}

func TestReleaseIsAllOrNothing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ids := register(t, database, "CSG-X", 2)
	foreign := register(t, database, "CSG-Y", 1)

	_, err := Release(ctx, database, releaseForm("CSG-X", ids[0], foreign[0]), 0)
	require.ErrorIs(t, err, ErrItemNotHeld)

	assert.Equal(t, 0, countRows(t, database, "release_records"))
	statuses, err := store.ListHeldItemStatuses(ctx, database, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{model.ItemStatusHeld, model.ItemStatusHeld}, statuses)
}

func TestReleaseStoreFailure(t *testing.T) {
	database := db.NewTestDB(t)
	ids := register(t, database, "CSG-E", 1)
	_, err := database.Exec("DROP TABLE release_records")
	require.NoError(t, err)

	_, err = Release(context.Background(), database, releaseForm("CSG-E", ids...), 0)
	require.ErrorIs(t, err, ErrReleaseFailed)

	c, _ := store.GetConsignmentByCode(context.Background(), database, "CSG-E")
	assert.Equal(t, model.ConsignmentStatusHeld, c.Status)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, MsgFixErrors, Message(&ValidationError{}))
	assert.Equal(t, "Error searching for consignment. Please try again.",
		Message(fmt.Errorf("%w: boom", ErrSearchFailed)))
	assert.Equal(t, "Failed to release items. Please try again.", Message(ErrReleaseFailed))
	assert.Contains(t, Message(ErrItemNotHeld), "already been released")
	assert.Equal(t, "Something went wrong. Please try again.", Message(errors.New("x")))
}
