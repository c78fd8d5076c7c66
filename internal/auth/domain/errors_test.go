package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestAppErrorStatus(t *testing.T) {
	tests := []struct {
		err  *domain.AppError
		want int
	}{
		{domain.NewValidationError("identity", "passwords do not match"), http.StatusBadRequest},
		{domain.NewUnauthorizedError("session", "nope"), http.StatusUnauthorized},
		{domain.NewNotFoundError("identity", "user not found"), http.StatusNotFound},
		{domain.NewConflictError("users", "user already exists"), http.StatusConflict},
		{domain.NewInternalError("session", "boom", nil), http.StatusInternalServerError},
		{domain.NewPartialContentError("session", "User profile incomplete"), http.StatusPartialContent},
		{&domain.AppError{Type: "CodeMismatchException", Status: http.StatusBadRequest}, http.StatusBadRequest},
		{&domain.AppError{Type: "SomethingNew"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestAppErrorMatching(t *testing.T) {
	cause := errors.New("driver: disk full")
	err := fmt.Errorf("create user: %w", domain.NewInternalError("users", "failed to create user", cause))

	require.True(t, domain.IsType(err, domain.InternalError))
	require.False(t, domain.IsType(err, domain.NotFoundError))
	require.ErrorIs(t, err, &domain.AppError{Type: domain.InternalError})
	require.ErrorIs(t, err, cause)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "failed to create user", appErr.PublicMessage())

	details := appErr.ErrorDetails()
	require.Equal(t, "InternalError", details["type"])
	require.Equal(t, "users", details["service"])
	require.Equal(t, "driver: disk full", details["cause"])

	_, ok = domain.AsAppError(errors.New("plain"))
	require.False(t, ok)
}

func TestAttributesGet(t *testing.T) {
	attrs := domain.Attributes{
		{Name: "sub", Value: "abc"},
		{Name: "email", Value: "a@example.com"},
	}

	v, ok := attrs.Get("email")
	require.True(t, ok)
	require.Equal(t, "a@example.com", v)

	_, ok = attrs.Get("email_verified")
	require.False(t, ok)
}
