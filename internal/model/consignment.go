package model

import "time"

// Consignment is a shipment under customs examination. Code is the
// human-entered consignment id; ID is assigned by the database.
type Consignment struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	Importer        string    `json:"importer,omitempty"`
	ExaminationDate string    `json:"examination_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ConsignmentSummary is a consignment joined with the number of its held items.
type ConsignmentSummary struct {
	Consignment
	ItemCount int `json:"item_count"`
}

// Consignment statuses.
const (
	ConsignmentStatusHeld     = "held"
	ConsignmentStatusPartial  = "partial"
	ConsignmentStatusReleased = "released"
)

// DeriveStatus computes a consignment's status from the statuses of its held
// items. A consignment without items is held.
func DeriveStatus(itemStatuses []string) string {
	if len(itemStatuses) == 0 {
		return ConsignmentStatusHeld
	}

	released := 0
	for _, s := range itemStatuses {
		if s == ItemStatusReleased {
			released++
		}
	}

	switch released {
	case 0:
		return ConsignmentStatusHeld
	case len(itemStatuses):
		return ConsignmentStatusReleased
	default:
		return ConsignmentStatusPartial
	}
}
