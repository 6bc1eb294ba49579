package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/waslerr/internal/models"
	"golang.org/x/oauth2"
)

// AuthService is the client of the remote authentication API.
type AuthService struct {
	api *APIService
}

// NewAuthService creates an [AuthService] for baseURL (e.g. https://host/api/auth).
func NewAuthService(baseURL string, client *http.Client) *AuthService {
	return &AuthService{api: NewAPIService(baseURL, client)}
}

// SetRateLimit throttles requests to rps per second.
func (s *AuthService) SetRateLimit(rps float64) { s.api.SetRateLimit(rps) }

// SetTimeout bounds each request.
func (s *AuthService) SetTimeout(d time.Duration) { s.api.SetTimeout(d) }

// BaseURL returns the API base URL.
func (s *AuthService) BaseURL() string { return s.api.BaseURL() }

// Login exchanges an email and password for a session.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	creds.Name = ""
	return s.post(ctx, "/login", creds)
}

// Register creates an account and returns its session.
func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return s.post(ctx, "/register", creds)
}

// Me returns the profile the bearer token belongs to.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.api.HTTPClient()), src)

	resp, err := s.api.GetWith(ctx, client, "/me")
	if err != nil {
		return nil, err
	}

	var body models.MeResponse
	decodeErr := resp.Decode(&body)
	if !resp.OK() {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	if decodeErr != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid /me response: %w", decodeErr)}
	}
	if body.Data == nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: body.Message, Err: fmt.Errorf("invalid /me response: missing data")}
	}
	return body.Data, nil
}

func (s *AuthService) post(ctx context.Context, path string, creds models.Credentials) (*models.AuthResponse, error) {
	data, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	resp, err := s.api.Post(ctx, path, data)
	if err != nil {
		return nil, err
	}

	var body models.AuthResponse
	if err := resp.Decode(&body); err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid %s response: %w", path, err)}
	}

	if !resp.OK() || !body.Success {
		return &body, &TransportError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	return &body, nil
}
