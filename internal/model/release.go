package model

import "time"

// ReleaseRecord documents the decision releasing one held item.
type ReleaseRecord struct {
	ID                 int64     `json:"id"`
	HeldItemID         int64     `json:"held_item_id"`
	BatchID            string    `json:"batch_id"`
	ReleaseDate        string    `json:"release_date"`
	ReleaseReference   string    `json:"release_reference"`
	ReleaseReason      string    `json:"release_reason"`
	AuthorizingOfficer string    `json:"authorizing_officer"`
	Notes              string    `json:"notes,omitempty"`
	ReleasedBy         *int64    `json:"released_by,omitempty"`
	CreatedAt          time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemDescription string `json:"item_description,omitempty"`
}

// NewReleaseRecord carries the fields needed to record a release.
type NewReleaseRecord struct {
	HeldItemID         int64
	BatchID            string
	ReleaseDate        string
	ReleaseReference   string
	ReleaseReason      string
	AuthorizingOfficer string
	Notes              string
	ReleasedBy         *int64
}
