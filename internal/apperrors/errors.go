package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates an illegal state transition or a lost concurrent update.
var ErrConflict = errors.New("conflicting state")

// ErrInternal indicates an unexpected failure inside the engine or its database.
var ErrInternal = errors.New("internal error")

// ValidationError carries the per-line and aggregate messages collected while
// validating a journal entry or reconciliation request. Callers fix their
// input and retry.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add appends a message and returns the receiver for chaining.
func (e *ValidationError) Add(format string, args ...any) *ValidationError {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
	return e
}

// HasErrors reports whether any message has been collected.
func (e *ValidationError) HasErrors() bool { return len(e.Messages) > 0 }

// PostingError indicates an illegal journal entry state transition, e.g.
// posting an already approved entry or reversing a draft.
type PostingError struct {
	EntryID string
	Reason  string
}

func NewPostingError(entryID, reason string) *PostingError {
	return &PostingError{EntryID: entryID, Reason: reason}
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("cannot transition entry %s: %s", e.EntryID, e.Reason)
}

func (e *PostingError) Unwrap() error { return ErrConflict }

// AccountMappingError indicates a well-known account code could not be
// resolved against the chart of accounts. This is a configuration problem for
// an operator, not a caller input problem.
type AccountMappingError struct {
	Code string
}

func NewAccountMappingError(code string) *AccountMappingError {
	return &AccountMappingError{Code: code}
}

func (e *AccountMappingError) Error() string {
	return fmt.Sprintf("no active account mapped for code %q", e.Code)
}

func (e *AccountMappingError) Unwrap() error { return ErrNotFound }

// ReconciliationError indicates a reconciliation-level failure such as a
// missing report, a balance calculation failure, or a variance above the
// closure threshold.
type ReconciliationError struct {
	ReportID string
	Reason   string
	wrapped  error
}

func NewReconciliationError(reportID, reason string, wrapped error) *ReconciliationError {
	if wrapped == nil {
		wrapped = ErrConflict
	}
	return &ReconciliationError{ReportID: reportID, Reason: reason, wrapped: wrapped}
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation %s: %s", e.ReportID, e.Reason)
}

func (e *ReconciliationError) Unwrap() error { return e.wrapped }

// AppError wraps a lower-level failure with an HTTP-ish status code. Used by
// the repository layer for database failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds an AppError that also matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}
