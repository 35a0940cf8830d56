package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// APIError is the structured error body returned by the API and sent as
// WebSocket error frames.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// FieldError describes one rejected selection field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newAPIError(status int, code, message string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message, Details: details}
}

func errRateLimited() *APIError {
	return newAPIError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded", nil)
}

func errInvalidRequest(err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// toAPIError maps service errors onto API errors.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, dashboard.ErrNotReady) {
		return newAPIError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Dataset not loaded", nil)
	}

	if errors.Is(err, domain.ErrInvalidSelection) {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{
					Field:   strings.ToLower(fe.Field()),
					Message: fmt.Sprintf("value %v fails %q", fe.Value(), fe.Tag()),
				})
			}
			return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Selection validation failed", fields)
		}
		return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Selection validation failed", err.Error())
	}

	return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", nil)
}
