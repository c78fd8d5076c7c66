package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is any non-success response from the auth service. Its fields
// mirror the uniform {message, details} error body.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`

	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("auth: %d: %s", e.StatusCode, e.Message)
}

// Type returns the server side error type when the service runs with
// verbose errors, or "" otherwise.
func (e *APIError) Type() string {
	t, _ := e.Details["type"].(string)
	return t
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsUnauthorized reports whether the service answered 401.
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }

// IsPartialContent reports whether GET /auth/user answered 206 because the
// provider profile has no email.
func IsPartialContent(err error) bool { return IsStatus(err, http.StatusPartialContent) }

// parseErrorResponse turns an unexpected response into an *APIError. Bodies
// that are not the uniform error shape fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apiErr
}
