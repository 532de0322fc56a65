package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation is not legal in the resource's current state.
var ErrConflict = errors.New("state conflict")

// ErrUnbalanced indicates that a set of ledger entries does not balance.
var ErrUnbalanced = errors.New("transaction is unbalanced")

// ErrMissingRate indicates that no exchange rate is available for a currency pair and date.
var ErrMissingRate = errors.New("exchange rate unavailable")

// ErrInternal indicates an internal defect; it is never user-correctable.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
// Adapters use it to report infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError reports input that failed validation. Nothing is persisted when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError without a specific field.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewFieldValidationError creates a ValidationError for a named field.
func NewFieldValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnbalancedTransactionError is returned when debit and credit sums (in base currency) differ.
type UnbalancedTransactionError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("%s: debits sum is %s and credits sum is %s",
		ErrUnbalanced.Error(), e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

func (e *UnbalancedTransactionError) Unwrap() error { return ErrUnbalanced }

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyPostedError is returned when posting a transaction that is no longer a draft.
type AlreadyPostedError struct {
	TransactionID string
	Status        string
}

func (e *AlreadyPostedError) Error() string {
	return fmt.Sprintf("transaction %s cannot be posted: status is %s", e.TransactionID, e.Status)
}

func (e *AlreadyPostedError) Unwrap() error { return ErrConflict }

// AlreadyReversedError is returned on a second reversal of the same transaction.
type AlreadyReversedError struct {
	TransactionID         string
	ReversedByTransaction string
}

func (e *AlreadyReversedError) Error() string {
	if e.ReversedByTransaction != "" {
		return fmt.Sprintf("transaction %s has already been reversed by %s", e.TransactionID, e.ReversedByTransaction)
	}
	return fmt.Sprintf("transaction %s has already been reversed", e.TransactionID)
}

func (e *AlreadyReversedError) Unwrap() error { return ErrConflict }

// MissingRateError is returned when no rate exists for a pair on or before a date.
type MissingRateError struct {
	From string
	To   string
	Date time.Time
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("%s: no rate for %s/%s effective on or before %s",
		ErrMissingRate.Error(), e.From, e.To, e.Date.Format("2006-01-02"))
}

func (e *MissingRateError) Unwrap() error { return ErrMissingRate }

// RoundingInvariantError signals a money kernel defect: net + tax != total after adjustment.
type RoundingInvariantError struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Total decimal.Decimal
}

func (e *RoundingInvariantError) Error() string {
	return fmt.Sprintf("rounding invariant violated: net %s + tax %s != total %s",
		e.Net.String(), e.Tax.String(), e.Total.String())
}

func (e *RoundingInvariantError) Unwrap() error { return ErrInternal }

// HTTPStatus maps an error from any layer to the status code handlers respond with.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnbalanced):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrMissingRate):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
