package usecase

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input validation error so callers can
// reject malformed requests without listing each one.
var ErrValidation = errors.New("validation failed")

// ErrStoreFailure wraps errors returned by the document store.
var ErrStoreFailure = errors.New("store operation failed")

var (
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvoiceNotFound = errors.New("invoice not found")

	ErrDuplicateOrderForQuote = errors.New("an order already exists for this quote")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
	ErrDuplicateAccessKey     = errors.New("access key already exists")

	ErrInvalidTransition      = errors.New("status transition not allowed")
	ErrConcurrentModification = errors.New("record was modified concurrently")
)

var (
	ErrInvalidQuoteID       = fmt.Errorf("%w: invalid quote id", ErrValidation)
	ErrInvalidOrderID       = fmt.Errorf("%w: invalid order id", ErrValidation)
	ErrInvalidInvoiceID     = fmt.Errorf("%w: invalid invoice id", ErrValidation)
	ErrInvalidClient        = fmt.Errorf("%w: invalid client", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidInvoiceNumber = fmt.Errorf("%w: invalid invoice number", ErrValidation)
	ErrInvalidAccessKey     = fmt.Errorf("%w: invalid access key", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid status", ErrValidation)
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
