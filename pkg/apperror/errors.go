package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error that knows which HTTP status it maps to. Err keeps the
// domain error it was translated from so errors.Is still matches it.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

var (
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrTenantRequired     = &AppError{Code: http.StatusBadRequest, Message: "X-Company-ID header is required"}
	ErrBackendUnavailable = &AppError{Code: http.StatusBadGateway, Message: "Backend unavailable"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches an HTTP status to a domain error, using its text as message
func Wrap(code int, err error) *AppError {
	return &AppError{Code: code, Message: err.Error(), Err: err}
}

// NewValidationError is a 422 listing every offending field
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found")
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// NewUnprocessableError is returned when a request is well formed but cannot
// be applied, e.g. a product without a price in the selected list
func NewUnprocessableError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message)
}

// NewBadGatewayError wraps a failure of the upstream REST backend
func NewBadGatewayError(message string) *AppError {
	return NewAppError(http.StatusBadGateway, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError returns the AppError in err's chain, or a generic 500
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: http.StatusInternalServerError, Message: ErrInternalServer.Message, Err: err}
}
