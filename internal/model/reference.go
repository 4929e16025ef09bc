package model

// Option is a value/label pair offered by a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// HoldReasons lists the reasons an item can be held.
var HoldReasons = []Option{
	{"documentation", "Documentation Issues"},
	{"inspection", "Further Inspection Required"},
	{"prohibited", "Prohibited/Restricted Items"},
	{"valuation", "Valuation Concerns"},
	{"classification", "Classification Verification"},
	{"security", "Security Concerns"},
	{"other", "Other"},
}

// ReleaseReasons lists the reasons a held item can be released.
var ReleaseReasons = []Option{
	{"documentation_resolved", "Documentation Issues Resolved"},
	{"inspection_passed", "Inspection Passed"},
	{"duties_paid", "Duties/Taxes Paid"},
	{"classification_confirmed", "Classification Confirmed"},
	{"court_order", "Court Order"},
	{"other", "Other"},
}

var QuantityUnits = []Option{
	{"units", "Units"},
	{"kg", "Kg"},
	{"boxes", "Boxes"},
	{"pallets", "Pallets"},
}

var Currencies = []Option{
	{"USD", "USD"},
	{"EUR", "EUR"},
	{"GBP", "GBP"},
	{"CAD", "CAD"},
	{"AUD", "AUD"},
}

var HoldDurations = []Option{
	{"1-3", "1-3 days"},
	{"4-7", "4-7 days"},
	{"8-14", "8-14 days"},
	{"15-30", "15-30 days"},
	{"30+", "30+ days"},
	{"indefinite", "Indefinite"},
}

// Label returns the label for value, or value itself if it is not listed.
func Label(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
