package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies domain failures.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindInvalidInput     ErrorKind = "invalid_input"
	KindSlotConflict     ErrorKind = "slot_conflict"
	KindInvalidSignature ErrorKind = "invalid_signature"
	KindForbidden        ErrorKind = "forbidden"
	KindTooLate          ErrorKind = "too_late"
	KindLimitExceeded    ErrorKind = "limit_exceeded"
	KindExpired          ErrorKind = "expired"
	KindGateway          ErrorKind = "gateway_error"
	KindUnauthorized     ErrorKind = "unauthorized"
)

// AppError is a domain error carrying a client-safe message.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound         = &AppError{Kind: KindNotFound}
	ErrInvalidInput     = &AppError{Kind: KindInvalidInput}
	ErrSlotConflict     = &AppError{Kind: KindSlotConflict}
	ErrInvalidSignature = &AppError{Kind: KindInvalidSignature}
	ErrForbidden        = &AppError{Kind: KindForbidden}
	ErrTooLate          = &AppError{Kind: KindTooLate}
	ErrLimitExceeded    = &AppError{Kind: KindLimitExceeded}
	ErrExpired          = &AppError{Kind: KindExpired}
	ErrGateway          = &AppError{Kind: KindGateway}
	ErrUnauthorized     = &AppError{Kind: KindUnauthorized}
)

func NewError(kind ErrorKind, message string) error {
	return &AppError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) error {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) error     { return NewError(KindNotFound, message) }
func InvalidInput(message string) error { return NewError(KindInvalidInput, message) }

// StatusCode maps an error to the HTTP status it is rendered with.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound, KindExpired:
		return http.StatusNotFound
	case KindInvalidInput, KindSlotConflict, KindInvalidSignature, KindTooLate:
		return http.StatusBadRequest
	case KindForbidden, KindLimitExceeded:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client. Unknown errors never leak.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Internal Server Error"
}
