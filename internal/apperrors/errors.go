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

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("conflicting resource state")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrPermissionDenied indicates the access gate refused the address.
var ErrPermissionDenied = errors.New("permission denied")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError attaches an HTTP-style status code and a human-readable message to
// an underlying error. Handlers use the code, errors.Is still matches the
// wrapped sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewPermissionDeniedError creates an AppError that matches ErrPermissionDenied.
func NewPermissionDeniedError(message string) *AppError {
	return &AppError{Code: 403, Message: message, Err: ErrPermissionDenied}
}

// LedgerError represents a non-success result from the ledger collaborator.
// EngineCode carries the ledger's own result code verbatim; the core never
// interprets it beyond success/failure.
type LedgerError struct {
	EngineCode string
	Message    string
}

func (e *LedgerError) Error() string {
	if e.EngineCode != "" {
		return fmt.Sprintf("ledger error (%s): %s", e.EngineCode, e.Message)
	}
	return fmt.Sprintf("ledger error: %s", e.Message)
}

// NewLedgerError creates a LedgerError for a failed submission or read.
func NewLedgerError(engineCode, message string) *LedgerError {
	return &LedgerError{EngineCode: engineCode, Message: message}
}
