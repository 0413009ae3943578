package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrEntityNotFound     = errors.New("entity not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCartNotFound       = errors.New("no cart in progress")
	ErrInvalidVertical    = errors.New("invalid booking vertical")
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnreachable = errors.New("booking service unreachable")
	ErrStaleValidation    = errors.New("validation superseded by a newer request")
)

// DiscountRejectedError carries the server's rejection reason for a
// coupon or offer verbatim so the buyer sees why it was refused, not a
// generic failure.
type DiscountRejectedError struct {
	Reason string
}

func (e *DiscountRejectedError) Error() string {
	return e.Reason
}

// BookingRejectedError is a booking submission the server refused,
// e.g. a category that sold out between page load and submission.
type BookingRejectedError struct {
	Reason string
}

func (e *BookingRejectedError) Error() string {
	return fmt.Sprintf("booking rejected: %s", e.Reason)
}
