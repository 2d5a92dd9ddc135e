package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")

	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrTotalMismatch      = errors.New("total mismatch")
	ErrAmountMismatch     = errors.New("amount mismatch")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrAccessDenied       = errors.New("access denied")
	ErrForbidden          = errors.New("forbidden")
	ErrOrderNotFound      = errors.New("order not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStorage            = errors.New("storage error")
)

// ProductError reports a cart line whose product is missing or not for sale.
type ProductError struct {
	ProductID   string
	ProductName string
	Err         error
}

func (e *ProductError) Error() string {
	if errors.Is(e.Err, ErrProductUnavailable) {
		return fmt.Sprintf("%v: %s", e.Err, e.ProductName)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.ProductID)
}

func (e *ProductError) Unwrap() error { return e.Err }

// MismatchError reports a client-claimed amount that disagrees with the authoritative one.
type MismatchError struct {
	Field      string
	Claimed    decimal.Decimal
	Calculated decimal.Decimal
	Err        error
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: %s claimed=%s calculated=%s", e.Err, e.Field, e.Claimed.StringFixed(2), e.Calculated.StringFixed(2))
}

func (e *MismatchError) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure. It matches both ErrStorage and the cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// InvalidInput returns an ErrInvalidInput carrying a caller-facing reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

var passthrough = []error{
	ErrNotFound,
	ErrAlreadyExists,
	ErrProductNotFound,
	ErrProductUnavailable,
	ErrTotalMismatch,
	ErrAmountMismatch,
	ErrRateLimitExceeded,
	ErrAccessDenied,
	ErrForbidden,
	ErrOrderNotFound,
	ErrPaymentNotFound,
	ErrInvalidInput,
	ErrInvalidTransition,
	ErrStorage,
}

// WrapStorage returns err unchanged when it already carries one of the
// sentinels above, and a *StorageError otherwise.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}
