package views

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/carina/internal/db"
	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/model"
)

var now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func hold(t *testing.T, database *sql.DB, code, examined string) int64 {
	t.Helper()
	f := forms.NewHoldForm(now)
	f.ConsignmentID = code
	f.ExaminationDate = examined
	f.ItemDescription = "Widgets"
	f.HSCode = "8471.30"
	f.QuantityHeld = 10
	f.HoldReason = "inspection"
	f.Warehouse = "W1"
	f.Section = "A"
	f.Shelf = "3"
	f.Identifiers = []string{"SN-1"}
	reg, err := holds.Register(context.Background(), database, f, 0)
	require.NoError(t, err)
	return reg.Item.ID
}

func release(t *testing.T, database *sql.DB, code string, ids ...int64) {
	t.Helper()
	f := forms.NewReleaseForm(now)
	f.ConsignmentID = code
	f.ReleaseReference = "REL-1"
	f.ReleaseReason = "duties_paid"
	f.AuthorizingOfficer = "J. Doe"
	f.SelectedItems = ids
	_, err := holds.Release(context.Background(), database, f, 0)
	require.NoError(t, err)
}

func TestLoadDashboard(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	empty, err := LoadDashboard(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{}, *empty)

	a1 := hold(t, database, "A", "2024-03-01")
	hold(t, database, "A", "2024-03-01")
	b1 := hold(t, database, "B", "2024-03-02")
	hold(t, database, "C", "2024-03-03")

	release(t, database, "A", a1)
	release(t, database, "B", b1)

	d, err := LoadDashboard(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{
		ActiveConsignments: 3,
		ItemsHeld:          2,
		ItemsReleased:      2,
		PendingReview:      1,
	}, *d)

	cards := d.Cards()
	require.Len(t, cards, 4)
	assert.Equal(t, "Pending Review", cards[3].Label)
	assert.Equal(t, 1, cards[3].Value)
}

func TestDefaultHistoryFilter(t *testing.T) {
	f := DefaultHistoryFilter(now)
	assert.Equal(t, "2024-03-01", f.From)
	assert.Equal(t, "2024-03-31", f.To)
	assert.Equal(t, "all", f.Status)
	assert.Empty(t, f.Query)
}

func TestParseHistoryFilter(t *testing.T) {
	f := ParseHistoryFilter(url.Values{"q": {" csg "}, "from": {""}, "status": {"partial"}}, now)
	assert.Equal(t, "csg", f.Query)
	assert.Empty(t, f.From, "present but empty clears the bound")
	assert.Equal(t, "2024-03-31", f.To, "absent keeps the default")
	assert.Equal(t, "partial", f.Status)
}

func TestHistoryFilterApply(t *testing.T) {
	rows := []HistoryRow{
		{Code: "CSG-2024-0003", ExaminationDate: "2024-03-20", Status: model.ConsignmentStatusPartial},
		{Code: "CSG-2024-0002", ExaminationDate: "2024-03-01", Status: model.ConsignmentStatusHeld},
		{Code: "XYZ-1", ExaminationDate: "2024-02-10", Status: model.ConsignmentStatusReleased},
	}

	codes := func(rs []HistoryRow) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.Code)
		}
		return out
	}

	tests := []struct {
		name   string
		filter HistoryFilter
		want   []string
	}{
		{"no filter", HistoryFilter{}, []string{"CSG-2024-0003", "CSG-2024-0002", "XYZ-1"}},
		{"all status", HistoryFilter{Status: "all"}, []string{"CSG-2024-0003", "CSG-2024-0002", "XYZ-1"}},
		{"code substring ignores case", HistoryFilter{Query: "csg-2024"}, []string{"CSG-2024-0003", "CSG-2024-0002"}},
		{"from inclusive", HistoryFilter{From: "2024-03-01"}, []string{"CSG-2024-0003", "CSG-2024-0002"}},
		{"to inclusive", HistoryFilter{To: "2024-03-01"}, []string{"CSG-2024-0002", "XYZ-1"}},
		{"range", HistoryFilter{From: "2024-03-01", To: "2024-03-01"}, []string{"CSG-2024-0002"}},
		{"status", HistoryFilter{Status: model.ConsignmentStatusReleased}, []string{"XYZ-1"}},
		{"nothing matches", HistoryFilter{Query: "nope"}, []string{}},
		{"default window", DefaultHistoryFilter(now), []string{"CSG-2024-0003", "CSG-2024-0002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(tt.filter.Apply(rows)))
		})
	}
}

func TestLoadHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hold(t, database, "OLD-1", "2023-12-01")
	hold(t, database, "NEW-1", "2024-03-15")
	hold(t, database, "NEW-1", "2024-03-15")

	h, err := LoadHistory(ctx, database, DefaultHistoryFilter(now))
	require.NoError(t, err)
	assert.Equal(t, 2, h.Total)
	require.Len(t, h.Rows, 1)
	assert.Equal(t, "NEW-1", h.Rows[0].Code)
	assert.Equal(t, 2, h.Rows[0].ItemCount)
	assert.Equal(t, model.ConsignmentStatusHeld, h.Rows[0].Status)
	assert.Len(t, h.Rows[0].LastUpdated, len("2006-01-02"))

	all, err := LoadHistory(ctx, database, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all.Rows, 2)
	assert.Equal(t, "NEW-1", all.Rows[0].Code, "newest first")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "10 units", FormatQuantity(10, "units"))
	assert.Equal(t, "2.5 kg", FormatQuantity(2.5, "kg"))
	assert.Equal(t, "7", FormatQuantity(7, ""))

	assert.Equal(t, "W1-A-3", FormatLocation("W1", "A", "3"))
	assert.Equal(t, "W1-3", FormatLocation("W1", "", "3"))
	assert.Equal(t, "W1", FormatLocation("W1", " ", ""))
}

func TestCandidateRows(t *testing.T) {
	rows := CandidateRows([]model.HeldItem{{
		ID:           4,
		Description:  "Laptops",
		Quantity:     10,
		QuantityUnit: "units",
		HoldReason:   "documentation",
		Warehouse:    "W1",
		Section:      "A",
		Shelf:        "3",
		Status:       model.ItemStatusHeld,
		Identifiers:  []model.ItemIdentifier{{Identifier: "SN-1"}},
	}})

	require.Len(t, rows, 1)
	assert.Equal(t, "10 units", rows[0].Quantity)
	assert.Equal(t, "W1-A-3", rows[0].Location)
	assert.Equal(t, "Documentation Issues", rows[0].Reason)
	assert.Equal(t, []string{"SN-1"}, rows[0].Identifiers)
	assert.False(t, rows[0].HasPhoto)

	assert.Empty(t, CandidateRows(nil))
}

func TestLoadConsignmentDetail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	missing, err := LoadConsignmentDetail(ctx, database, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	a := hold(t, database, "D-1", "2024-03-10")
	hold(t, database, "D-1", "2024-03-10")
	release(t, database, "D-1", a)

	d, err := LoadConsignmentDetail(ctx, database, "D-1")
	require.NoError(t, err)
	assert.Equal(t, model.ConsignmentStatusPartial, d.Consignment.Status)
	require.Len(t, d.Items, 2)
	assert.Equal(t, model.ItemStatusReleased, d.Items[0].Status)
	assert.Equal(t, []string{"SN-1"}, d.Items[0].Identifiers)
	require.Len(t, d.Releases, 1)
	assert.Equal(t, a, d.Releases[0].HeldItemID)
	assert.Equal(t, "Widgets", d.Releases[0].ItemDescription)
}
