package dto

import (
	"net/http"
	"time"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeConflict       = "conflict"
	ErrCodeTimeout        = "timeout"
	ErrCodePrinter        = "printer_error"
	ErrCodeUnavailable    = "service_unavailable"
)

var codeByStatus = map[int]string{
	http.StatusBadRequest:          ErrCodeInvalidRequest,
	http.StatusUnprocessableEntity: ErrCodeConflict,
	http.StatusUnauthorized:        ErrCodeUnauthorized,
	http.StatusNotFound:            ErrCodeNotFound,
	http.StatusConflict:            ErrCodeConflict,
	http.StatusTooManyRequests:     ErrCodeRateLimit,
	http.StatusRequestTimeout:      ErrCodeTimeout,
	http.StatusGatewayTimeout:      ErrCodeTimeout,
	http.StatusBadGateway:          ErrCodePrinter,
	http.StatusServiceUnavailable:  ErrCodeUnavailable,
}

// CodeForStatus returns the error code written for an HTTP status.
func CodeForStatus(status int) string {
	if code, ok := codeByStatus[status]; ok {
		return code
	}
	return ErrCodeInternal
}

// SuccessResponse is the envelope around every successful API payload.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2024-03-01T08:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the body of every failed API call. Duplicates lists the
// already-issued serials of a refused batch; Field names the request field
// that failed validation.
// @Description Standardized error response
type ErrorResponse struct {
	Error      string    `json:"error" example:"conflict"`
	Message    string    `json:"message,omitempty" example:"Duplicate serial numbers detected: 0101, 0102"`
	Duplicates []string  `json:"duplicates,omitempty" example:"0101,0102"`
	Field      string    `json:"field,omitempty" example:"start_serial"`
	RequestID  string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp  time.Time `json:"timestamp" example:"2024-03-01T08:00:00Z"`
} // @name ErrorResponse

// NewError creates an ErrorResponse stamped with the current time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID sets the request ID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDuplicates sets the conflicting serials.
func (e ErrorResponse) WithDuplicates(serials []string) ErrorResponse {
	e.Duplicates = serials
	return e
}

// WithField sets the invalid request field.
func (e ErrorResponse) WithField(field string) ErrorResponse {
	e.Field = field
	return e
}
