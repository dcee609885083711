package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"source": "poll"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "poll", result["source"])
}

func TestJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Body.String())
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, http.StatusCreated, domain.Business{ID: "b1", Name: "Acme"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var result SuccessResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "b1", data["_id"])
	assert.Equal(t, "Acme", data["businessName"])
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, "invalid request body")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "invalid request body", result.Error)
	assert.Empty(t, result.Code)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation error", domain.NewDomainError(domain.ErrCodeValidation, "invalid"), http.StatusBadRequest},
		{"business validation", domain.ErrBusinessEmailInvalid, http.StatusBadRequest},
		{"stale cursor", domain.ErrStaleCursor, http.StatusBadRequest},
		{"not found error", domain.NewDomainError(domain.ErrCodeNotFound, "missing"), http.StatusNotFound},
		{"rate limited", domain.ErrRefreshRateLimited, http.StatusTooManyRequests},
		{"upstream", domain.ErrPlatformUnavailable, http.StatusBadGateway},
		{"wrapped validation", fmt.Errorf("create: %w", domain.ErrBusinessNameRequired), http.StatusBadRequest},
		{"platform api error", fmt.Errorf("failed to fetch logs: %w", &platform.APIError{StatusCode: 500, Message: "boom"}), http.StatusBadGateway},
		{"platform decode error", &platform.DecodeError{Path: platform.PathGetAllLogs, Err: assert.AnError}, http.StatusBadGateway},
		{"deadline", fmt.Errorf("request failed: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"internal error", domain.NewDomainError(domain.ErrCodeInternal, "internal"), http.StatusInternalServerError},
		{"unknown domain error", domain.NewDomainError("UNKNOWN", "unknown"), http.StatusInternalServerError},
		{"non-domain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DomainErrorToHTTP(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domain.ErrUnknownField)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Contains(t, result.Error, "unknown log field")
	assert.Equal(t, domain.ErrCodeValidation, result.Code)
}

func TestHandleError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", domain.ErrInvalidSort, domain.ErrCodeValidation},
		{"rate limited", domain.ErrRefreshRateLimited, domain.ErrCodeRateLimited},
		{"platform", fmt.Errorf("failed: %w", &platform.APIError{StatusCode: 503, Message: "down"}), domain.ErrCodeUpstream},
		{"plain", assert.AnError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			var result ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, tt.err.Error(), result.Error)
		})
	}
}
