package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource changed underneath the caller.
var ErrConflict = errors.New("conflict")

// ErrInternal is used when the failure cannot be attributed to the caller.
var ErrInternal = errors.New("internal error")

// Ledger errors.
var (
	// ErrTransactionFailed marks any record operation that was rolled back.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrInsufficientFunds is returned when a debit exceeds the locked balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSameAccount is returned for transfers whose source and destination match.
	ErrSameAccount = errors.New("source and destination accounts must differ")
	// ErrInvalidAmount is returned for non-positive amounts or amounts finer than cents.
	ErrInvalidAmount = errors.New("amount must be positive with at most two decimal places")
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
