package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can pick a status code.
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	KindAuthorization  ErrorKind = "AUTHORIZATION_ERROR"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindTransient      ErrorKind = "TRANSIENT_ERROR"
	KindConflict       ErrorKind = "CONFLICT"
)

// AppError represents a typed application error
type AppError struct {
	Kind    ErrorKind
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

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewConflictError reports a write rejected by a uniqueness or reference
// constraint. Retrying the same write fails the same way.
func NewConflictError(resource string, id interface{}, err error) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: fmt.Sprintf("%s with ID %v conflicts with existing data", resource, id),
		Err:     err,
	}
}

// NewTransientError wraps a persistence or network failure that is safe to retry.
func NewTransientError(err error) *AppError {
	return &AppError{Kind: KindTransient, Message: "temporary storage failure", Err: err}
}

// PartialCascadeError is returned when the primary record of a cascade delete
// is gone but some dependents could not be removed. FailedIDs lists exactly the
// dependents still present so the caller can retry them.
type PartialCascadeError struct {
	Resource  string
	ParentID  string
	FailedIDs []uint
	Err       error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("%s %s deleted but %d dependent(s) remain: %v", e.Resource, e.ParentID, len(e.FailedIDs), e.Err)
}

func (e *PartialCascadeError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first AppError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsTransient(err error) bool  { return KindOf(err) == KindTransient }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }

// IsPartialCascade reports whether err carries a PartialCascadeError.
func IsPartialCascade(err error) bool {
	var pc *PartialCascadeError
	return errors.As(err, &pc)
}
