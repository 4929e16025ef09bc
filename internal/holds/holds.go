// Package holds implements the consignment lifecycle: registering held
// items, searching a consignment for release candidates and releasing
// selected items. Each write runs in a single transaction and ends by
// re-deriving the consignment status from its items.
package holds

import (
	"errors"

	"github.com/erazemk/carina/internal/forms"
)

var (
	ErrConsignmentNotFound = errors.New("consignment not found")
	ErrNoItemsSelected     = errors.New("no items selected for release")
	ErrItemNotHeld         = errors.New("selected item is no longer held")
	ErrRegistrationFailed  = errors.New("registering held item failed")
	ErrReleaseFailed       = errors.New("releasing items failed")
	ErrSearchFailed        = errors.New("searching consignment failed")
)

// ValidationError carries the invalid fields of a rejected form.
type ValidationError struct {
	Fields forms.Errors
}

func (e *ValidationError) Error() string {
	return "form has invalid fields"
}

// Level is the severity of a message shown to the user.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// User-facing messages.
const (
	MsgRegistered    = "Item successfully registered as held!"
	MsgReleased      = "Items successfully released!"
	MsgNoHeldItems   = "No held items found for this consignment"
	MsgFixErrors     = "Please fix the errors before submitting."
	MsgPrintPending  = "Generating release document for printing..."
	MsgPrintNoSelect = "Please select at least one item to generate a release document."
)

// Message returns the text shown to the user for an error returned by this
// package. Any other error gets a generic retry hint.
func Message(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return MsgFixErrors
	case errors.Is(err, ErrConsignmentNotFound):
		return "Consignment not found"
	case errors.Is(err, ErrNoItemsSelected):
		return "Please select at least one item to release."
	case errors.Is(err, ErrItemNotHeld):
		return "One of the selected items has already been released. Search again to refresh the list."
	case errors.Is(err, ErrRegistrationFailed):
		return "Failed to register item. Please try again."
	case errors.Is(err, ErrReleaseFailed):
		return "Failed to release items. Please try again."
	case errors.Is(err, ErrSearchFailed):
		return "Error searching for consignment. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
