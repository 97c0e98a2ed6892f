// Package lifecycle holds the package, subscription, booking and payment rules.
// Every function here is pure: inputs include the current time and the acting
// identity, and results are returned as values or typed errors.
package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation             = errors.New("validation error")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrBookingNotUsable       = errors.New("booking is not usable")
	ErrSubscriptionNotUsable  = errors.New("subscription is not usable")
	ErrIneligiblePurchase     = errors.New("ineligible purchase")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type TransitionError struct {
	Entity string
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

type NotUsableError struct {
	Entity string
	ID     uint
	Reason string
}

func (e *NotUsableError) Error() string {
	return fmt.Sprintf("%s %d is not usable: %s", e.Entity, e.ID, e.Reason)
}

func (e *NotUsableError) Unwrap() error {
	if e.Entity == "booking" {
		return ErrBookingNotUsable
	}
	return ErrSubscriptionNotUsable
}

// IneligiblePurchaseError carries the end date of the subscription that blocks
// the purchase so the UI can tell the user when they may buy again.
type IneligiblePurchaseError struct {
	Category       string
	SubscriptionID uint
	ActiveUntil    time.Time
}

func (e *IneligiblePurchaseError) Error() string {
	return fmt.Sprintf("an active %s subscription already exists until %s; a new one can be purchased after it ends",
		e.Category, e.ActiveUntil.Format("2006-01-02"))
}

func (e *IneligiblePurchaseError) Unwrap() error { return ErrIneligiblePurchase }

// DataIntegrityWarning reports stored data that violates an invariant. It is
// never returned as an error: values are clamped and the warning travels with them.
type DataIntegrityWarning struct {
	Entity    string
	ID        uint
	Purchased int
	Used      int
}

func (w DataIntegrityWarning) String() string {
	return fmt.Sprintf("%s %d: used %d exceeds purchased %d", w.Entity, w.ID, w.Used, w.Purchased)
}
