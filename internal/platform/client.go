// Package platform talks to the try-on platform's internal HTTP API.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
)

const (
	PathGetAllLogs       = "/api/v1/internal/getAllLogs"
	PathGetAllBusinesses = "/api/v1/internal/getAllBusinesses"
	PathCreateBusiness   = "/api/v1/internal/createBusiness"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client is a platform API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client for the platform at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform API error (%d): %s", e.StatusCode, e.Message)
}

// DecodeError reports a 2xx response whose body could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// GetAllLogs fetches every log record.
func (c *Client) GetAllLogs(ctx context.Context) ([]domain.LogRecord, error) {
	body, err := c.do(ctx, http.MethodGet, PathGetAllLogs, nil)
	if err != nil {
		return nil, err
	}

	records, err := DecodeLogRecords(body)
	if err != nil {
		return nil, &DecodeError{Path: PathGetAllLogs, Err: err}
	}
	return records, nil
}

// GetAllBusinesses fetches every business account.
func (c *Client) GetAllBusinesses(ctx context.Context) ([]domain.Business, error) {
	body, err := c.do(ctx, http.MethodGet, PathGetAllBusinesses, nil)
	if err != nil {
		return nil, err
	}

	var businesses []domain.Business
	if err := json.Unmarshal(body, &businesses); err != nil {
		return nil, &DecodeError{Path: PathGetAllBusinesses, Err: err}
	}
	if businesses == nil {
		businesses = []domain.Business{}
	}
	return businesses, nil
}

// CreateBusiness registers a business. The returned record carries the
// generated API key.
func (c *Client) CreateBusiness(ctx context.Context, input domain.CreateBusinessInput) (*domain.Business, error) {
	body, err := c.do(ctx, http.MethodPost, PathCreateBusiness, input)
	if err != nil {
		return nil, err
	}

	var business domain.Business
	if err := json.Unmarshal(body, &business); err != nil {
		return nil, &DecodeError{Path: PathCreateBusiness, Err: err}
	}
	return &business, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody, resp.Status),
		}
	}

	return respBody, nil
}

// errorMessage prefers a JSON {"error"} or {"message"} field and falls back
// to a truncated body.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return status
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}
