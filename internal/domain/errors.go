package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrOriginRejected     = errors.New("origin not allowed")
	ErrTransportRejected  = errors.New("transport method not allowed")
	ErrSignatureInvalid   = errors.New("invalid signature")
	ErrSellerIDMismatch   = errors.New("seller id mismatch")
	ErrMalformedReference = errors.New("malformed order reference")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrAmountMismatch     = errors.New("amount mismatch")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidRequest     = errors.New("invalid request")
)

// MismatchError carries the two values of a failed order-consistency check.
type MismatchError struct {
	Err          error
	Order        string
	Notification string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s (org: %s <> notification: %s)", e.Err, e.Order, e.Notification)
}

func (e *MismatchError) Unwrap() error { return e.Err }
