package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/shared"
)

// DefaultFailureMessage is shown when a failed request carries no message.
const DefaultFailureMessage = "An error occurred. Please check if your backend server is running."

// Validation messages, in rule order.
const (
	MsgNameRequired     = "Name is required"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgEmailRequired    = "Email is required"
	MsgPasswordRequired = "Password is required"
	MsgEmailInvalid     = "Please enter a valid email address"
)

// MinPasswordLength applies to registrations only.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Mode selects between signing in and signing up.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// ParseMode parses "login" or "register".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLogin, ModeRegister:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown auth mode %q", shared.ErrInvalidArgument, s)
	}
}

// Endpoint is the API path for the mode.
func (m Mode) Endpoint() string {
	if m == ModeRegister {
		return "/register"
	}
	return "/login"
}

// Field names an editable form field.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldPassword
	FieldConfirmPassword
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	case FieldConfirmPassword:
		return "confirmPassword"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// FormState is a snapshot of the form.
type FormState struct {
	Mode                Mode
	Name                string
	Email               string
	Password            string
	ConfirmPassword     string
	ShowPassword        bool
	ShowConfirmPassword bool
	Submitting          bool
}

// Credentials builds the request body. Name is empty when signing in.
func (s FormState) Credentials() models.Credentials {
	c := models.Credentials{Email: s.Email, Password: s.Password}
	if s.Mode == ModeRegister {
		c.Name = s.Name
	}
	return c
}

// ValidationError is a local, pre-network form error.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate applies the form rules in order and returns the first failure.
func Validate(s FormState) error {
	if s.Mode == ModeRegister {
		if strings.TrimSpace(s.Name) == "" {
			return &ValidationError{Field: FieldName, Message: MsgNameRequired}
		}
		if s.Password != s.ConfirmPassword {
			return &ValidationError{Field: FieldConfirmPassword, Message: MsgPasswordMismatch}
		}
		if len([]rune(s.Password)) < MinPasswordLength {
			return &ValidationError{Field: FieldPassword, Message: MsgPasswordTooShort}
		}
	}

	if strings.TrimSpace(s.Email) == "" {
		return &ValidationError{Field: FieldEmail, Message: MsgEmailRequired}
	}
	if strings.TrimSpace(s.Password) == "" {
		return &ValidationError{Field: FieldPassword, Message: MsgPasswordRequired}
	}
	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{Field: FieldEmail, Message: MsgEmailInvalid}
	}
	return nil
}
