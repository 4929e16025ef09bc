package model

import "time"

// HeldItem is a line item of a consignment withheld from release.
type HeldItem struct {
	ID                int64            `json:"id"`
	ConsignmentID     int64            `json:"consignment_id"`
	Description       string           `json:"description"`
	HSCode            string           `json:"hs_code"`
	Quantity          float64          `json:"quantity"`
	QuantityUnit      string           `json:"quantity_unit"`
	TotalQuantity     *float64         `json:"total_quantity,omitempty"`
	TotalQuantityUnit string           `json:"total_quantity_unit,omitempty"`
	HoldReason        string           `json:"hold_reason"`
	Warehouse         string           `json:"warehouse"`
	Section           string           `json:"section,omitempty"`
	Shelf             string           `json:"shelf,omitempty"`
	Currency          string           `json:"currency,omitempty"`
	ItemValue         *float64         `json:"item_value,omitempty"`
	HoldDuration      string           `json:"hold_duration,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	Status            string           `json:"status"`
	PhotoMime         string           `json:"photo_mime,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Identifiers       []ItemIdentifier `json:"identifiers,omitempty"`
}

// NewHeldItem carries the fields needed to create a held item.
type NewHeldItem struct {
	ConsignmentID     int64
	Description       string
	HSCode            string
	Quantity          float64
	QuantityUnit      string
	TotalQuantity     *float64
	TotalQuantityUnit string
	HoldReason        string
	Warehouse         string
	Section           string
	Shelf             string
	Currency          string
	ItemValue         *float64
	HoldDuration      string
	Notes             string
}

// ItemIdentifier is a serial, batch or lot number attached to a held item.
type ItemIdentifier struct {
	ID         int64     `json:"id"`
	HeldItemID int64     `json:"held_item_id"`
	Identifier string    `json:"identifier"`
	CreatedAt  time.Time `json:"created_at"`
}

// Held item statuses. Items only move from held to released.
const (
	ItemStatusHeld     = "held"
	ItemStatusReleased = "released"
)
