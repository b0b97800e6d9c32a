package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON body of every transport-level failure. Summarization
// outcomes are never APIErrors; they are answered with a summarizer.Response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WithDetails returns a copy of e carrying details.
func (e *APIError) WithDetails(details any) *APIError {
	c := *e
	c.Details = details
	return &c
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message}
}

var (
	ErrInvalidRequest  = newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request")
	ErrNotFound        = newAPIError(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrMissingFile     = newAPIError(http.StatusBadRequest, "MISSING_FILE", "Multipart field \"file\" is required")
	ErrPayloadTooLarge = newAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body is too large")
	ErrInternal        = newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)
