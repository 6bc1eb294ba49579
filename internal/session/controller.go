package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/nav"
	"github.com/desertthunder/waslerr/internal/shared"
)

// ProfileFetcher resolves the user a bearer token belongs to.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*models.User, error)
}

// MenuCloser closes open navigation menus.
type MenuCloser interface {
	CloseMenus()
}

// State is the navigation bar's view of the session.
type State struct {
	Loading       bool
	Authenticated bool
	User          *models.User
}

// ControllerOpts configures a [Controller].
type ControllerOpts struct {
	Store     Store
	API       ProfileFetcher
	Menus     MenuCloser
	Navigator nav.Navigator
	Logger    *log.Logger
}

// Controller maintains the authenticated/unauthenticated state derived from a [Store].
type Controller struct {
	store     Store
	api       ProfileFetcher
	menus     MenuCloser
	navigator nav.Navigator
	logger    *log.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a [Controller] in the loading state.
func NewController(opts ControllerOpts) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		store:     opts.Store,
		api:       opts.API,
		menus:     opts.Menus,
		navigator: opts.Navigator,
		logger:    logger,
		state:     State{Loading: true},
	}
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Initialize reads the persisted session. A malformed session is purged and
// treated as absent; storage read failures also leave the state unauthenticated.
func (c *Controller) Initialize(ctx context.Context) State {
	sess, err := c.store.Read(ctx)
	switch {
	case errors.Is(err, ErrSessionDecode):
		c.logger.Warn("discarding malformed session", "error", err)
		if cerr := c.store.Clear(ctx); cerr != nil {
			c.logger.Error("failed to clear malformed session", "error", cerr)
		}
		c.set(nil)
	case err != nil:
		c.logger.Error("failed to read session", "error", err)
		c.set(nil)
	case sess == nil:
		c.set(nil)
	default:
		c.set(&sess.User)
	}
	return c.State()
}

// OnExternalSessionChange re-reads the session when key is a session key.
// It reports whether the key was handled.
func (c *Controller) OnExternalSessionChange(ctx context.Context, key string) bool {
	if !IsSessionKey(key) {
		return false
	}
	c.Initialize(ctx)
	return true
}

// Logout clears the persisted session, closes menus and navigates to the
// landing route with a full reload. The in-memory state becomes
// unauthenticated even when clearing storage fails; that error is returned.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.store.Clear(ctx)
	if err != nil {
		c.logger.Error("failed to clear session on logout", "error", err)
	}

	c.set(nil)
	if c.menus != nil {
		c.menus.CloseMenus()
	}
	if c.navigator != nil {
		c.navigator.Navigate(nav.RouteLanding, true)
	}
	return err
}

// Refresh validates the stored token against the profile endpoint and
// replaces the cached user with the server's profile. Any failure purges the
// session.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	if c.api == nil {
		return c.State(), fmt.Errorf("%w: no profile endpoint configured", shared.ErrMissingConfig)
	}

	sess, err := c.store.Read(ctx)
	if err != nil || sess == nil {
		if err != nil {
			c.logger.Warn("failed to read session before refresh", "error", err)
		}
		c.set(nil)
		return c.State(), shared.ErrNotAuthenticated
	}

	user, err := c.api.Me(ctx, sess.Token)
	if err != nil || user == nil {
		if err == nil {
			err = fmt.Errorf("%w: empty profile", shared.ErrInvalidToken)
		}
		c.logger.Warn("session rejected by profile endpoint", "error", err)
		if cerr := c.store.Clear(ctx); cerr != nil {
			c.logger.Error("failed to clear rejected session", "error", cerr)
		}
		c.set(nil)
		return c.State(), err
	}

	u := user.WithDefaults()
	c.set(&u)
	return c.State(), nil
}

func (c *Controller) set(user *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	if user == nil {
		c.state.Authenticated = false
		c.state.User = nil
		return
	}
	u := *user
	c.state.Authenticated = true
	c.state.User = &u
}
