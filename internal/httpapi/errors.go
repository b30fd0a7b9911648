package httpapi

import (
	"errors"
	"net/http"
)

// HTTPError is an error with everything needed to render a JSON error
// response.
type HTTPError struct {
	// Err is logged, never shown to the client.
	Err     error
	Message string
	Details string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func newHTTPError(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

func errBadRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, nil)
}

func errUnauthorized() *HTTPError {
	return newHTTPError(http.StatusUnauthorized, "Unauthorized", nil)
}

// errInternal exposes err's text as details, which the trigger endpoint
// relies on for diagnostics.
func errInternal(message string, err error) *HTTPError {
	e := newHTTPError(http.StatusInternalServerError, message, err)
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

type errorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func asHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), err)
}
