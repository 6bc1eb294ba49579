package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// APIService makes raw JSON requests against a base URL.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewAPIService creates a new API service for baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the URL every path is appended to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// SetRateLimit allows at most rps requests per second, with a burst of one.
// A non-positive rps removes the limit.
func (a *APIService) SetRateLimit(rps float64) {
	if rps <= 0 {
		a.limiter = nil
		return
	}
	a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// SetTimeout bounds each request. A non-positive d removes the bound.
func (a *APIService) SetTimeout(d time.Duration) {
	a.timeout = d
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return ok(r.StatusCode)
}

// Decode unmarshals the JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if !r.IsJSON {
		return fmt.Errorf("response body is not JSON")
	}
	return json.Unmarshal(r.Body, v)
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, a.httpClient, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, a.httpClient, http.MethodPost, path, data)
}

// GetWith performs a GET request through client, which may add its own transport (e.g. auth).
func (a *APIService) GetWith(ctx context.Context, client *http.Client, path string) (*APIResponse, error) {
	return a.do(ctx, client, http.MethodGet, path, nil)
}

// HTTPClient returns the client requests are sent through.
func (a *APIService) HTTPClient() *http.Client {
	return a.httpClient
}

func (a *APIService) do(ctx context.Context, client *http.Client, method, path string, data []byte) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
		IsJSON:     json.Valid(raw) && len(bytes.TrimSpace(raw)) > 0,
	}, nil
}
