package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeNotAttached        = "NOT_ATTACHED"
	CodeEntryNotFound      = "ENTRY_NOT_FOUND"
	CodeEntryNotVisible    = "ENTRY_NOT_VISIBLE"
	CodePhaseNotFound      = "PHASE_NOT_FOUND"
	CodePhaseLocked        = "PHASE_LOCKED"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeSessionNotActive   = "SESSION_NOT_ACTIVE"
	CodeNotAdmin           = "NOT_ADMIN"
	CodeCameraUnavailable  = "CAMERA_UNAVAILABLE"
	CodeNoStream           = "NO_STREAM"
	CodeInvalidGiftAmount  = "INVALID_GIFT_AMOUNT"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrNotAttached):
		return &httpError{http.StatusConflict, APIError{CodeNotAttached, "No profile attached"}}
	case errors.Is(err, model.ErrEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEntryNotFound, "Catalog entry not found"}}
	case errors.Is(err, model.ErrEntryNotVisible):
		return &httpError{http.StatusForbidden, APIError{CodeEntryNotVisible, "Catalog entry not available for this profile"}}
	case errors.Is(err, model.ErrPhaseNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePhaseNotFound, "Phase not found"}}
	case errors.Is(err, model.ErrPhaseLocked):
		return &httpError{http.StatusForbidden, APIError{CodePhaseLocked, err.Error()}}
	case errors.Is(err, model.ErrInvalidTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, "Operation not allowed in the current state"}}
	case errors.Is(err, model.ErrSessionNotActive):
		return &httpError{http.StatusConflict, APIError{CodeSessionNotActive, "No active session"}}
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeNotAdmin, "Admin role required"}}
	case errors.Is(err, model.ErrCameraUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeCameraUnavailable, "Camera unavailable"}}
	case errors.Is(err, model.ErrNoStream):
		return &httpError{http.StatusConflict, APIError{CodeNoStream, "No active camera stream"}}
	case errors.Is(err, model.ErrInvalidGiftAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGiftAmount, "Gift amount must be positive"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
