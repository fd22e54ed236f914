package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ValidationError  ErrorKind = "ValidationError"
	NotFoundError    ErrorKind = "NotFoundError"
	UpstreamError    ErrorKind = "UpstreamError"
	PersistenceError ErrorKind = "PersistenceError"
)

// AppError is the error type every workflow in this package returns. Message
// is safe to show to clients; Err carries the underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ValidationError, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: NotFoundError, Message: message}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Kind: UpstreamError, Message: message, Err: err}
}

func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Kind: PersistenceError, Message: message, Err: err}
}

// KindOf reports the kind of err, or "" when err is not an *AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
