// package models defines the data model for the storefront client
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Default values applied to profiles fetched from /me.
const (
	DefaultUserName = "User"
	DefaultUserRole = "user"
)

// User is the signed-in identity cached on the client.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UnmarshalJSON accepts the API's "_id" field as an alias of "id".
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string `json:"id"`
		MID   string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.MID
	}
	u.Name = raw.Name
	u.Email = raw.Email
	u.Role = raw.Role
	return nil
}

// WithDefaults fills an empty name and role the way the navigation bar expects.
func (u User) WithDefaults() User {
	if u.Name == "" {
		u.Name = DefaultUserName
	}
	if u.Role == "" {
		u.Role = DefaultUserRole
	}
	return u
}

// DisplayName returns the name, falling back to the email.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// Session is a bearer token together with the user it belongs to.
//
// Token and User are always persisted and cleared together.
type Session struct {
	Token string
	User  User
}

// Validate checks that the session is complete enough to persist.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("session token is empty")
	}
	return nil
}

// Credentials is the request body of /login and /register.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the response body of /login and /register.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// MeResponse is the response body of /me.
type MeResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Data    *User  `json:"data"`
}

// Account is a user record of the local stand-in auth API.
type Account struct {
	ID           string
	Sequence     int
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User converts the account to its public profile.
func (a *Account) User() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// Validate checks required fields before the account is stored.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}
