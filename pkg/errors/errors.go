package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Standard error codes
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
)

// Fulfillment domain error codes
const (
	CodeDuplicateSKU      = "DUPLICATE_SKU"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidAdjustment = "INVALID_ADJUSTMENT"
	CodeOverRelease       = "OVER_RELEASE"
	CodeInvalidState      = "INVALID_STATE"
	CodeStationOccupied   = "STATION_OCCUPIED"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Validation errors

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

// ErrValidationWithFields creates a validation error with field details
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	return ErrValidation(message).WithDetails(fields)
}

// Resource errors

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrNotFoundWithID creates a not found error with ID
func ErrNotFoundWithID(resource, id string) *AppError {
	return ErrNotFound(resource).WithDetail("id", id)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict)
}

// Internal errors

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// ErrBadRequest creates a bad request error
func ErrBadRequest(message string) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest)
}

// Service errors

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(service string) *AppError {
	return NewAppError(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

// ErrTimeout creates a timeout error
func ErrTimeout(operation string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout)
}

// Fulfillment domain errors

// ErrDuplicateSKU creates a duplicate SKU error
func ErrDuplicateSKU(warehouseID, sku string) *AppError {
	return NewAppError(CodeDuplicateSKU, fmt.Sprintf("sku %s already registered in warehouse %s", sku, warehouseID), http.StatusConflict)
}

// ErrInsufficientStock creates an insufficient stock error
func ErrInsufficientStock(sku string, requested, available int) *AppError {
	return NewAppError(CodeInsufficientStock, fmt.Sprintf("insufficient stock for sku %s", sku), http.StatusConflict).
		WithDetail("requested", strconv.Itoa(requested)).
		WithDetail("available", strconv.Itoa(available))
}

// ErrInvalidAdjustment creates an invalid stock adjustment error
func ErrInvalidAdjustment(message string) *AppError {
	return NewAppError(CodeInvalidAdjustment, message, http.StatusUnprocessableEntity)
}

// ErrOverRelease creates an over-release error
func ErrOverRelease(sku string, requested, reserved int) *AppError {
	return NewAppError(CodeOverRelease, fmt.Sprintf("release exceeds reserved quantity for sku %s", sku), http.StatusUnprocessableEntity).
		WithDetail("requested", strconv.Itoa(requested)).
		WithDetail("reserved", strconv.Itoa(reserved))
}

// ErrInvalidState creates an invalid state transition error
func ErrInvalidState(message string) *AppError {
	return NewAppError(CodeInvalidState, message, http.StatusConflict)
}

// ErrStationOccupied creates a station occupied error
func ErrStationOccupied(stationCode string) *AppError {
	return NewAppError(CodeStationOccupied, fmt.Sprintf("packing station %s is already occupied", stationCode), http.StatusConflict)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError converts a standard error to an AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	return ErrInternal("").Wrap(err)
}

// Domain error mappings - common domain errors that should be mapped to AppErrors

// MapDomainError maps common domain error messages to AppErrors
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Check if it's already an AppError
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	msg := err.Error()

	// Map common domain error patterns
	switch {
	case contains(msg, "not found"):
		return ErrNotFound("resource").Wrap(err)
	case contains(msg, "already exists"), contains(msg, "already registered"), contains(msg, "modified concurrently"):
		return ErrConflict(msg).Wrap(err)
	case contains(msg, "insufficient"):
		return NewAppError(CodeInsufficientStock, msg, http.StatusConflict).Wrap(err)
	case contains(msg, "occupied"):
		return NewAppError(CodeStationOccupied, msg, http.StatusConflict).Wrap(err)
	case contains(msg, "exceeds reserved"):
		return NewAppError(CodeOverRelease, msg, http.StatusUnprocessableEntity).Wrap(err)
	case contains(msg, "cannot transition"), contains(msg, "invalid state"), contains(msg, "already resolved"):
		return ErrInvalidState(msg).Wrap(err)
	case contains(msg, "adjustment"):
		return ErrInvalidAdjustment(msg).Wrap(err)
	case contains(msg, "discontinued"):
		return ErrInvalidState(msg).Wrap(err)
	case contains(msg, "must be positive"), contains(msg, "invalid"):
		return ErrValidation(msg).Wrap(err)
	case contains(msg, "required"):
		return ErrValidation(msg).Wrap(err)
	case contains(msg, "timeout"):
		return ErrTimeout("operation").Wrap(err)
	default:
		return ErrInternal("").Wrap(err)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsIgnoreCase(s, substr))
}

func containsIgnoreCase(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if equalIgnoreCase(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}

func equalIgnoreCase(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
