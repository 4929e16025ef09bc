package forms

import (
	"math"
	"strings"
)

// Validation messages.
const (
	MsgConsignmentRequired = "Consignment ID is required"
	MsgExaminationDate     = "Examination date is required"
	MsgDescription         = "Item description is required"
	MsgHSCode              = "HS Code is required"
	MsgQuantity            = "Quantity must be greater than 0"
	MsgReason              = "Please select a reason"
	MsgWarehouse           = "Warehouse is required"
	MsgReleaseDate         = "Release date is required"
	MsgReference           = "Reference number is required"
	MsgOfficer             = "Authorizing officer is required"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ValidateHold returns the currently invalid fields of a hold form.
func ValidateHold(f HoldForm) Errors {
	errs := Errors{}
	if blank(f.ConsignmentID) {
		errs["consignmentId"] = MsgConsignmentRequired
	}
	if blank(f.ExaminationDate) {
		errs["examinationDate"] = MsgExaminationDate
	}
	if blank(f.ItemDescription) {
		errs["itemDescription"] = MsgDescription
	}
	if blank(f.HSCode) {
		errs["hsCode"] = MsgHSCode
	}
	if !(f.QuantityHeld > 0) || math.IsInf(f.QuantityHeld, 1) {
		errs["quantityHeld"] = MsgQuantity
	}
	if blank(f.HoldReason) {
		errs["holdReason"] = MsgReason
	}
	if blank(f.Warehouse) {
		errs["warehouse"] = MsgWarehouse
	}
	return errs
}

// ValidateRelease returns the currently invalid fields of a release form.
// Item selection is checked when the release is submitted, not here.
func ValidateRelease(f ReleaseForm) Errors {
	errs := Errors{}
	if blank(f.ConsignmentID) {
		errs["consignmentId"] = MsgConsignmentRequired
	}
	if blank(f.ReleaseDate) {
		errs["releaseDate"] = MsgReleaseDate
	}
	if blank(f.ReleaseReference) {
		errs["releaseReference"] = MsgReference
	}
	if blank(f.ReleaseReason) {
		errs["releaseReason"] = MsgReason
	}
	if blank(f.AuthorizingOfficer) {
		errs["authorizingOfficer"] = MsgOfficer
	}
	return errs
}

// ValidateSearch checks that a consignment code was entered before a search.
func ValidateSearch(code string) Errors {
	if blank(code) {
		return Errors{"consignmentId": MsgConsignmentRequired}
	}
	return Errors{}
}
