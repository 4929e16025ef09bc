// Package forms holds the hold, release and search form state and the rules
// that gate submitting them.
package forms

import (
	"maps"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/carina/internal/model"
)

// DateLayout is the calendar date format used by every date field.
const DateLayout = "2006-01-02"

// Errors maps a field name to the message describing why it is invalid.
// Fields that are valid have no entry.
type Errors map[string]string

// Merge returns a new Errors holding e's entries overlaid with other's.
// Neither input is modified.
func (e Errors) Merge(other Errors) Errors {
	out := make(Errors, len(e)+len(other))
	maps.Copy(out, e)
	maps.Copy(out, other)
	return out
}

// Clear returns a copy of e without field, as when the user edits it.
func (e Errors) Clear(field string) Errors {
	out := maps.Clone(e)
	if out == nil {
		out = Errors{}
	}
	delete(out, field)
	return out
}

// Valid reports whether there are no errors.
func (e Errors) Valid() bool { return len(e) == 0 }

// Get returns the message for field, or "".
func (e Errors) Get(field string) string { return e[field] }

// HoldForm is the state of the hold registration form.
type HoldForm struct {
	ConsignmentID     string   `json:"consignmentId"`
	Importer          string   `json:"importer"`
	ExaminationDate   string   `json:"examinationDate"`
	ItemDescription   string   `json:"itemDescription"`
	HSCode            string   `json:"hsCode"`
	QuantityHeld      float64  `json:"quantityHeld"`
	QuantityUnit      string   `json:"quantityUnit"`
	TotalQuantity     *float64 `json:"totalQuantity,omitempty"`
	TotalQuantityUnit string   `json:"totalQuantityUnit"`
	HoldReason        string   `json:"holdReason"`
	Warehouse         string   `json:"warehouse"`
	Section           string   `json:"section"`
	Shelf             string   `json:"shelf"`
	Currency          string   `json:"currency"`
	ItemValue         *float64 `json:"itemValue,omitempty"`
	HoldDuration      string   `json:"holdDuration"`
	Identifiers       []string `json:"identifiers"`
	Notes             string   `json:"notes"`
}

// ReleaseForm is the state of the release form. Importer and HoldDate are
// filled in from a search and are not validated.
type ReleaseForm struct {
	ConsignmentID      string  `json:"consignmentId"`
	Importer           string  `json:"importer"`
	HoldDate           string  `json:"holdDate"`
	ReleaseDate        string  `json:"releaseDate"`
	ReleaseReference   string  `json:"releaseReference"`
	ReleaseReason      string  `json:"releaseReason"`
	AuthorizingOfficer string  `json:"authorizingOfficer"`
	Notes              string  `json:"notes"`
	SelectedItems      []int64 `json:"selectedItems"`
}

// NewHoldForm returns the hold form defaults for the given day.
func NewHoldForm(now time.Time) HoldForm {
	return HoldForm{
		ExaminationDate:   now.Format(DateLayout),
		QuantityUnit:      "units",
		TotalQuantityUnit: "units",
		Currency:          "USD",
		HoldDuration:      "1-3",
		Identifiers:       []string{},
	}
}

// NewReleaseForm returns the release form defaults for the given day.
func NewReleaseForm(now time.Time) ReleaseForm {
	return ReleaseForm{
		ReleaseDate:   now.Format(DateLayout),
		SelectedItems: []int64{},
	}
}

// NewHeldItem converts the item part of the form into a creation input.
func (f HoldForm) NewHeldItem(consignmentID int64) model.NewHeldItem {
	return model.NewHeldItem{
		ConsignmentID:     consignmentID,
		Description:       strings.TrimSpace(f.ItemDescription),
		HSCode:            strings.TrimSpace(f.HSCode),
		Quantity:          f.QuantityHeld,
		QuantityUnit:      f.QuantityUnit,
		TotalQuantity:     f.TotalQuantity,
		TotalQuantityUnit: f.TotalQuantityUnit,
		HoldReason:        f.HoldReason,
		Warehouse:         strings.TrimSpace(f.Warehouse),
		Section:           strings.TrimSpace(f.Section),
		Shelf:             strings.TrimSpace(f.Shelf),
		Currency:          f.Currency,
		ItemValue:         f.ItemValue,
		HoldDuration:      f.HoldDuration,
		Notes:             strings.TrimSpace(f.Notes),
	}
}

// IsSelected reports whether item id is selected for release.
func (f ReleaseForm) IsSelected(id int64) bool {
	for _, s := range f.SelectedItems {
		if s == id {
			return true
		}
	}
	return false
}

// ParseHoldForm reads a submitted hold form. Identifiers come from repeated
// "identifiers" fields, each of which may hold several lines. Numbers that
// do not parse or are not finite are left at zero (or nil) for validation to
// report.
func ParseHoldForm(v url.Values) HoldForm {
	f := HoldForm{
		ConsignmentID:     v.Get("consignmentId"),
		Importer:          v.Get("importer"),
		ExaminationDate:   v.Get("examinationDate"),
		ItemDescription:   v.Get("itemDescription"),
		HSCode:            v.Get("hsCode"),
		QuantityUnit:      v.Get("quantityUnit"),
		TotalQuantityUnit: v.Get("totalQuantityUnit"),
		HoldReason:        v.Get("holdReason"),
		Warehouse:         v.Get("warehouse"),
		Section:           v.Get("section"),
		Shelf:             v.Get("shelf"),
		Currency:          v.Get("currency"),
		HoldDuration:      v.Get("holdDuration"),
		Notes:             v.Get("notes"),
		Identifiers:       []string{},
	}

	if q := optionalFloat(v.Get("quantityHeld")); q != nil {
		f.QuantityHeld = *q
	}
	f.TotalQuantity = optionalFloat(v.Get("totalQuantity"))
	f.ItemValue = optionalFloat(v.Get("itemValue"))

	for _, raw := range v["identifiers"] {
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				f.Identifiers = append(f.Identifiers, line)
			}
		}
	}
	return f
}

// ParseReleaseForm reads a submitted release form. Selected items come from
// repeated "selectedItems" fields; values that are not ids are ignored.
func ParseReleaseForm(v url.Values) ReleaseForm {
	f := ReleaseForm{
		ConsignmentID:      v.Get("consignmentId"),
		Importer:           v.Get("importer"),
		HoldDate:           v.Get("holdDate"),
		ReleaseDate:        v.Get("releaseDate"),
		ReleaseReference:   v.Get("releaseReference"),
		ReleaseReason:      v.Get("releaseReason"),
		AuthorizingOfficer: v.Get("authorizingOfficer"),
		Notes:              v.Get("notes"),
		SelectedItems:      []int64{},
	}
	for _, raw := range v["selectedItems"] {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err == nil && id > 0 && !f.IsSelected(id) {
			f.SelectedItems = append(f.SelectedItems, id)
		}
	}
	return f
}

func optionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
