package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/waslerr/internal/shared"
	tu "github.com/desertthunder/waslerr/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/api/auth/", customClient)

			if srv.BaseURL() != "http://example.com/api/auth" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.BaseURL())
			}
			if srv.HTTPClient() != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.BaseURL() != DefaultBaseURL {
				t.Errorf("expected default baseURL %q, got %s", DefaultBaseURL, srv.BaseURL())
			}
			if srv.HTTPClient() != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/test" {
					t.Errorf("expected path '/test', got %s", r.URL.Path)
				}
				w.Header().Set("X-Custom", "yes")
				tu.WriteJSON(t, w, http.StatusOK, map[string]string{"status": "success"})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}
			if resp.Headers.Get("X-Custom") != "yes" {
				t.Error("expected headers to be preserved")
			}

			var body map[string]string
			if err := resp.Decode(&body); err != nil {
				t.Fatalf("expected decode to succeed, got %v", err)
			}
			if body["status"] != "success" {
				t.Errorf("expected status 'success', got %q", body["status"])
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("<html>bad gateway</html>"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response not to be JSON")
			}
			if resp.OK() {
				t.Error("expected non-2xx status")
			}
			if err := resp.Decode(&struct{}{}); err == nil {
				t.Error("expected decode error")
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}

			var te *TransportError
			if !errors.As(err, &te) || te.StatusCode != 0 {
				t.Errorf("expected TransportError without status, got %#v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}

			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/")
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.StatusCode != http.StatusOK {
				t.Errorf("expected status 200 recorded, got %d", te.StatusCode)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := NewAPIService(server.URL, nil).Get(ctx, "/")
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			release := make(chan struct{})
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer server.Close()
			defer close(release)

			srv := NewAPIService(server.URL, nil)
			srv.SetTimeout(20 * time.Millisecond)

			_, err := srv.Get(context.Background(), "/")
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected deadline exceeded, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		t.Run("Sends JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("expected JSON content type, got %q", ct)
				}

				var body map[string]string
				tu.DecodeJSON(t, r.Body, &body)
				tu.WriteJSON(t, w, http.StatusCreated, body)
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Post(context.Background(), "/echo", []byte(`{"a":"b"}`))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusCreated {
				t.Errorf("expected 201, got %d", resp.StatusCode)
			}
		})
	})

	t.Run("Rate Limit", func(t *testing.T) {
		t.Run("Throttles Requests", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			srv.SetRateLimit(20)

			start := time.Now()
			for range 3 {
				if _, err := srv.Get(context.Background(), "/"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
				t.Errorf("expected requests to be throttled, took %v", elapsed)
			}
		})

		t.Run("Wait Honours Context", func(t *testing.T) {
			srv := NewAPIService("http://example.com", &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("unreachable")),
			})
			srv.SetRateLimit(0.001)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			// The first request consumes the burst.
			srv.Get(ctx, "/")
			_, err := srv.Get(ctx, "/")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Disabled", func(t *testing.T) {
			srv := NewAPIService("", nil)
			srv.SetRateLimit(5)
			srv.SetRateLimit(0)
			if srv.limiter != nil {
				t.Error("expected limiter to be removed")
			}
		})
	})
}

func TestTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{"status and message", &TransportError{StatusCode: 401, Message: "Invalid credentials"}, "API request failed: HTTP 401: Invalid credentials"},
		{"status only", &TransportError{StatusCode: 500}, "API request failed: HTTP 500: Internal Server Error"},
		{"cause only", &TransportError{Err: errors.New("dial tcp")}, "API request failed: dial tcp"},
		{"empty", &TransportError{}, "API request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if !errors.Is(tt.err, shared.ErrAPIRequest) {
				t.Error("expected error to match ErrAPIRequest")
			}
		})
	}
}
