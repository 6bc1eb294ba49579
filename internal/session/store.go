package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/waslerr/internal/models"
)

// Storage keys of the persisted session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrSessionDecode is returned when a persisted session is present but cannot be decoded.
var ErrSessionDecode = errors.New("persisted session is malformed")

// Change announces that a session key was written or cleared.
type Change struct {
	Key string
	// External is true when the change was made by another process.
	External bool
}

// IsSessionKey reports whether key is one of the session keys.
func IsSessionKey(key string) bool {
	return key == KeyToken || key == KeyUser
}

// Store persists a [models.Session].
type Store interface {
	// Read returns the persisted session, or nil when none is stored.
	// A present but undecodable session yields an error wrapping [ErrSessionDecode].
	Read(ctx context.Context) (*models.Session, error)
	// Write persists both keys of the session.
	Write(ctx context.Context, s models.Session) error
	// Clear removes both keys.
	Clear(ctx context.Context) error
	// Subscribe returns a channel of changes and a function that ends the subscription.
	Subscribe() (<-chan Change, func())
}

// Encode serializes a session into its token and user values.
func Encode(s models.Session) (token, user string, err error) {
	if err := s.Validate(); err != nil {
		return "", "", err
	}
	b, err := json.Marshal(s.User)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode user: %w", err)
	}
	return s.Token, string(b), nil
}

// Decode parses the stored token and user values.
//
// An empty value on either key means no session and yields (nil, nil).
func Decode(token, user string) (*models.Session, error) {
	if token == "" || user == "" {
		return nil, nil
	}

	raw := bytes.TrimSpace([]byte(user))
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: user is not a JSON object", ErrSessionDecode)
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionDecode, err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is blank", ErrSessionDecode)
	}

	return &models.Session{Token: token, User: u}, nil
}
