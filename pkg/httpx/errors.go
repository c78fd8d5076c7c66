package httpx

import (
	"errors"
	"net/http"
)

const internalErrorMessage = "Internal server error"

// StatusError is implemented by errors that know how they should be
// rendered to a client. Anything else is treated as an unexpected fault.
type StatusError interface {
	error
	// StatusCode is the HTTP status for the response.
	StatusCode() int
	// PublicMessage is safe to show to any caller.
	PublicMessage() string
	// ErrorDetails is extra context, only rendered in verbose mode.
	ErrorDetails() map[string]any
}

// WriteError is the single place errors become HTTP responses. A
// StatusError keeps its own status and message; anything else becomes a 500
// with a generic message. Details are only included when verbose is set,
// which callers tie to a non-production environment.
func WriteError(w http.ResponseWriter, err error, verbose bool) {
	var se StatusError
	if !errors.As(err, &se) {
		resp := MessageResponse{Message: internalErrorMessage}
		if verbose && err != nil {
			resp.Details = map[string]any{"cause": err.Error()}
		}
		WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	resp := MessageResponse{Message: se.PublicMessage()}
	if verbose {
		resp.Details = se.ErrorDetails()
	}
	WriteJSON(w, se.StatusCode(), resp)
}
