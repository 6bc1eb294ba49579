package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/nav"
	"github.com/desertthunder/waslerr/internal/notify"
	"github.com/desertthunder/waslerr/internal/shared"
)

var (
	// ErrSubmitInProgress is returned by Begin while a submission is outstanding.
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	// ErrStaleResult is returned by Complete for a request that is no longer outstanding.
	ErrStaleResult = errors.New("submission result is stale")
)

// Authenticator exchanges credentials for a session.
//
// On failure the returned response, when not nil, carries the server's message.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
}

// SessionWriter persists a session.
type SessionWriter interface {
	Write(ctx context.Context, s models.Session) error
}

// Notifier displays the outcome of a submission.
type Notifier interface {
	Show(message string, kind notify.Kind) notify.Notification
	Close()
}

// ControllerOpts configures a [Controller].
type ControllerOpts struct {
	API       Authenticator
	Store     SessionWriter
	Notifier  Notifier
	Navigator nav.Navigator
	Logger    *log.Logger
	// Mode is the initial mode. Defaults to [ModeLogin].
	Mode Mode
}

// Request is an outstanding submission returned by [Controller.Begin].
type Request struct {
	Mode        Mode
	Credentials models.Credentials
	attempt     uint64
}

// Outcome is the result of a completed submission.
type Outcome struct {
	Success bool
	Message string
	Session *models.Session
}

// Controller is the auth form state machine.
type Controller struct {
	api       Authenticator
	store     SessionWriter
	notifier  Notifier
	navigator nav.Navigator
	logger    *log.Logger

	mu      sync.Mutex
	state   FormState
	attempt uint64
}

// NewController creates a [Controller] with an empty form.
func NewController(opts ControllerOpts) *Controller {
	mode := opts.Mode
	if mode != ModeRegister {
		mode = ModeLogin
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		api:       opts.API,
		store:     opts.Store,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		logger:    logger,
		state:     FormState{Mode: mode},
	}
}

// State returns a snapshot of the form.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetField updates a single field.
func (c *Controller) SetField(f Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch f {
	case FieldName:
		c.state.Name = value
	case FieldEmail:
		c.state.Email = value
	case FieldPassword:
		c.state.Password = value
	case FieldConfirmPassword:
		c.state.ConfirmPassword = value
	}
}

// TogglePassword flips the password visibility. Allowed while submitting.
func (c *Controller) TogglePassword() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ShowPassword = !c.state.ShowPassword
	return c.state.ShowPassword
}

// ToggleConfirmPassword flips the confirmation visibility. Allowed while submitting.
func (c *Controller) ToggleConfirmPassword() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ShowConfirmPassword = !c.state.ShowConfirmPassword
	return c.state.ShowConfirmPassword
}

// SwitchPage clears every field and visibility flag, dismisses the
// notification and sets mode. An outstanding submission stays outstanding.
func (c *Controller) SwitchPage(mode Mode) {
	if mode != ModeRegister {
		mode = ModeLogin
	}

	c.mu.Lock()
	c.state = FormState{Mode: mode, Submitting: c.state.Submitting}
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Close()
	}
}

// Begin validates the form and enters the submitting state.
//
// A validation failure is shown as an error notification and returned as a
// [*ValidationError]; the form is left as is.
func (c *Controller) Begin() (Request, error) {
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return Request{}, ErrSubmitInProgress
	}

	if err := Validate(c.state); err != nil {
		mode := c.state.Mode
		c.mu.Unlock()
		c.logger.Debug("form rejected", "mode", mode, "error", err)
		c.show(err.Error(), notify.KindError)
		return Request{}, err
	}

	c.attempt++
	c.state.Submitting = true
	req := Request{Mode: c.state.Mode, Credentials: c.state.Credentials(), attempt: c.attempt}
	c.mu.Unlock()

	return req, nil
}

// Send performs the network call for req.
func (c *Controller) Send(ctx context.Context, req Request) (*models.AuthResponse, error) {
	if c.api == nil {
		return nil, fmt.Errorf("%w: no auth endpoint configured", shared.ErrMissingConfig)
	}
	if req.Mode == ModeRegister {
		return c.api.Register(ctx, req.Credentials)
	}
	return c.api.Login(ctx, req.Credentials)
}

// Complete applies the result of req.
//
// On success the session is persisted, a success notification shows the
// server's message, the form is reset and the app navigates to the landing
// route. On failure an error notification is shown and the form is kept.
// Either way the form leaves the submitting state.
func (c *Controller) Complete(ctx context.Context, req Request, resp *models.AuthResponse, err error) (Outcome, error) {
	c.mu.Lock()
	if !c.state.Submitting || req.attempt != c.attempt {
		c.mu.Unlock()
		return Outcome{}, ErrStaleResult
	}
	c.mu.Unlock()

	sess, failure := interpret(resp, err)
	if failure == nil {
		if werr := c.store.Write(ctx, *sess); werr != nil {
			c.logger.Error("failed to persist session", "error", werr)
			failure = werr
		}
	}

	if failure != nil {
		msg := failureMessage(resp)
		c.logger.Warn("authentication failed", "mode", req.Mode, "error", failure)

		c.mu.Lock()
		c.state.Submitting = false
		c.mu.Unlock()

		c.show(msg, notify.KindError)
		return Outcome{Message: msg}, failure
	}

	msg := resp.Message
	c.logger.Info("authenticated", "mode", req.Mode, "user", sess.User.ID)

	c.mu.Lock()
	c.state = FormState{Mode: c.state.Mode}
	c.mu.Unlock()

	c.show(msg, notify.KindSuccess)
	if c.navigator != nil {
		c.navigator.Navigate(nav.RouteLanding, true)
	}
	return Outcome{Success: true, Message: msg, Session: sess}, nil
}

// Submit runs Begin, Send and Complete.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	req, err := c.Begin()
	if err != nil {
		if ve := (*ValidationError)(nil); errors.As(err, &ve) {
			return Outcome{Message: ve.Message}, err
		}
		return Outcome{}, err
	}

	resp, err := c.Send(ctx, req)
	return c.Complete(ctx, req, resp, err)
}

func (c *Controller) show(message string, kind notify.Kind) {
	if c.notifier != nil {
		c.notifier.Show(message, kind)
	}
}

// interpret turns an API result into a session, or the reason there is none.
// A response without a success flag, token or user is a failure.
func interpret(resp *models.AuthResponse, err error) (*models.Session, error) {
	switch {
	case err != nil:
		return nil, err
	case resp == nil:
		return nil, fmt.Errorf("%w: empty response", shared.ErrAPIRequest)
	case !resp.Success:
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, failureMessage(resp))
	case resp.Token == "" || resp.User == nil:
		return nil, fmt.Errorf("%w: response carries no session", shared.ErrAPIRequest)
	}
	return &models.Session{Token: resp.Token, User: *resp.User}, nil
}

func failureMessage(resp *models.AuthResponse) string {
	if resp != nil && resp.Message != "" && !resp.Success {
		return resp.Message
	}
	return DefaultFailureMessage
}
