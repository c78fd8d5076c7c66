package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError. Provider pass-through errors use the
// provider's exception name as their type.
type ErrorType string

const (
	ValidationError     ErrorType = "ValidationError"
	UnauthorizedError   ErrorType = "UnauthorizedError"
	NotFoundError       ErrorType = "NotFoundError"
	ConflictError       ErrorType = "ConflictError"
	InternalError       ErrorType = "InternalError"
	PartialContentError ErrorType = "PartialContentError"
)

var defaultStatus = map[ErrorType]int{
	ValidationError:     http.StatusBadRequest,
	UnauthorizedError:   http.StatusUnauthorized,
	NotFoundError:       http.StatusNotFound,
	ConflictError:       http.StatusConflict,
	InternalError:       http.StatusInternalServerError,
	PartialContentError: http.StatusPartialContent,
}

// AppError is the error value passed between the identity adapter, the user
// service and the session service. It knows how to render itself over HTTP.
type AppError struct {
	Type    ErrorType
	Message string
	Status  int
	// Service names the layer that produced the error, e.g. "identity".
	Service string
	Details map[string]any
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Service, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Service, e.Type, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any *AppError target with the same Type, so callers can write
// errors.Is(err, &domain.AppError{Type: domain.NotFoundError}).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func (e *AppError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	if s, ok := defaultStatus[e.Type]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func (e *AppError) PublicMessage() string { return e.Message }

func (e *AppError) ErrorDetails() map[string]any {
	d := map[string]any{
		"type":    string(e.Type),
		"service": e.Service,
	}
	for k, v := range e.Details {
		d[k] = v
	}
	if e.Cause != nil {
		d["cause"] = e.Cause.Error()
	}
	return d
}

// NewError builds an AppError with the default status for its type.
func NewError(t ErrorType, service, message string, cause error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Status:  defaultStatus[t],
		Service: service,
		Cause:   cause,
	}
}

func NewValidationError(service, message string) *AppError {
	return NewError(ValidationError, service, message, nil)
}

func NewNotFoundError(service, message string) *AppError {
	return NewError(NotFoundError, service, message, nil)
}

func NewConflictError(service, message string) *AppError {
	return NewError(ConflictError, service, message, nil)
}

func NewUnauthorizedError(service, message string) *AppError {
	return NewError(UnauthorizedError, service, message, nil)
}

func NewInternalError(service, message string, cause error) *AppError {
	return NewError(InternalError, service, message, cause)
}

func NewPartialContentError(service, message string) *AppError {
	return NewError(PartialContentError, service, message, nil)
}

// IsType reports whether err is an AppError of type t.
func IsType(err error, t ErrorType) bool {
	e, ok := AsAppError(err)
	return ok && e.Type == t
}

// AsAppError unwraps err to an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var e *AppError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
