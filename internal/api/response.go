package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/platform"
)

// SuccessResponse wraps successful API responses
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse represents an error API response. Code carries the domain
// error code, or UPSTREAM_ERROR for platform failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps errors to HTTP status codes. Wrapped errors are
// unwrapped; platform failures become 502.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeValidation:
			return http.StatusBadRequest
		case domain.ErrCodeNotFound:
			return http.StatusNotFound
		case domain.ErrCodeRateLimited:
			return http.StatusTooManyRequests
		case domain.ErrCodeUpstream:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}

	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	var decodeErr *platform.DecodeError
	if errors.As(err, &decodeErr) {
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// ErrorCode returns the machine-readable code for err, "" when none applies.
func ErrorCode(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var apiErr *platform.APIError
	var decodeErr *platform.DecodeError
	if errors.As(err, &apiErr) || errors.As(err, &decodeErr) {
		return domain.ErrCodeUpstream
	}
	return ""
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	JSON(w, DomainErrorToHTTP(err), ErrorResponse{Error: err.Error(), Code: ErrorCode(err)})
}
