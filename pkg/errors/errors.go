package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates a resource does not exist in the store
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidState indicates an operation attempted against a gift card
// whose current status forbids it
type ErrInvalidState struct {
	Code   string
	Status string
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("gift card %s is %s", e.Code, e.Status)
}

// ErrExpired indicates the gift card's expiry date has passed
type ErrExpired struct {
	Code string
}

func (e *ErrExpired) Error() string {
	return fmt.Sprintf("gift card %s has expired", e.Code)
}

// ErrInsufficientBalance indicates a redemption amount exceeds the
// available balance
type ErrInsufficientBalance struct {
	Code      string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance on %s: requested %s, available %s",
		e.Code, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

// ErrAlreadyCancelled indicates cancel was requested twice
type ErrAlreadyCancelled struct {
	Code string
}

func (e *ErrAlreadyCancelled) Error() string {
	return fmt.Sprintf("gift card %s is already cancelled", e.Code)
}

// ErrConflict indicates a conditional update lost a race: the row changed
// between read and write. Callers must not retry silently.
type ErrConflict struct {
	Resource string
	ID       string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}

// ErrValidation indicates a request that fails precondition checks before
// touching the store
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUnauthorized indicates a failed API key check
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
