package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/nav"
	"github.com/desertthunder/waslerr/internal/notify"
	"github.com/desertthunder/waslerr/internal/session"
	"github.com/desertthunder/waslerr/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	resp  *models.AuthResponse
	err   error
	calls []string
	creds models.Credentials
}

func (f *fakeAPI) Login(_ context.Context, c models.Credentials) (*models.AuthResponse, error) {
	f.calls = append(f.calls, "login")
	f.creds = c
	return f.resp, f.err
}

func (f *fakeAPI) Register(_ context.Context, c models.Credentials) (*models.AuthResponse, error) {
	f.calls = append(f.calls, "register")
	f.creds = c
	return f.resp, f.err
}

type fixture struct {
	api      *fakeAPI
	store    *session.MemoryStore
	notifier *notify.Notifier
	history  *nav.History
	ctrl     *Controller
}

func newFixture(mode Mode) *fixture {
	f := &fixture{
		api:      &fakeAPI{},
		store:    session.NewMemoryStore(),
		notifier: notify.New(notify.Options{}),
		history:  &nav.History{},
	}
	f.ctrl = NewController(ControllerOpts{
		API:       f.api,
		Store:     f.store,
		Notifier:  f.notifier,
		Navigator: f.history,
		Mode:      mode,
	})
	return f
}

func (f *fixture) fillLogin() {
	f.ctrl.SetField(FieldEmail, "jo@example.com")
	f.ctrl.SetField(FieldPassword, "secret1")
}

func welcome() *models.AuthResponse {
	return &models.AuthResponse{
		Success: true,
		Message: "Welcome",
		Token:   "t1",
		User:    &models.User{ID: "u1", Name: "Jo", Email: "jo@example.com", Role: "user"},
	}
}

func TestSubmitSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(ModeLogin)
	f.fillLogin()
	f.api.resp = welcome()

	out, err := f.ctrl.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "Welcome", out.Message)

	t.Run("persists the session", func(t *testing.T) {
		sess, err := f.store.Read(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "t1", sess.Token)
		assert.Equal(t, "u1", sess.User.ID)
	})

	t.Run("shows the server message", func(t *testing.T) {
		n, ok := f.notifier.Current()
		require.True(t, ok)
		assert.Equal(t, notify.KindSuccess, n.Kind)
		assert.Equal(t, "Welcome", n.Message)
	})

	t.Run("resets the form", func(t *testing.T) {
		assert.Equal(t, FormState{Mode: ModeLogin}, f.ctrl.State())
	})

	t.Run("navigates to the landing route", func(t *testing.T) {
		assert.Equal(t, nav.RouteLanding, f.history.Current())
	})

	t.Run("login sends an empty name", func(t *testing.T) {
		assert.Equal(t, []string{"login"}, f.api.calls)
		assert.Equal(t, models.Credentials{Email: "jo@example.com", Password: "secret1"}, f.api.creds)
	})
}

func TestSubmitRegister(t *testing.T) {
	f := newFixture(ModeRegister)
	f.ctrl.SetField(FieldName, "Jo")
	f.ctrl.SetField(FieldEmail, "jo@example.com")
	f.ctrl.SetField(FieldPassword, "abcdef")
	f.ctrl.SetField(FieldConfirmPassword, "abcdef")
	f.api.resp = welcome()

	_, err := f.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"register"}, f.api.calls)
	assert.Equal(t, "Jo", f.api.creds.Name)
}

func TestSubmitFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("transport failure keeps the form", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		f.api.err = shared.ErrAPIRequest

		out, err := f.ctrl.Submit(ctx)
		require.ErrorIs(t, err, shared.ErrAPIRequest)
		assert.False(t, out.Success)

		n, ok := f.notifier.Current()
		require.True(t, ok)
		assert.Equal(t, notify.KindError, n.Kind)
		assert.Equal(t, DefaultFailureMessage, n.Message)

		s := f.ctrl.State()
		assert.Equal(t, "jo@example.com", s.Email)
		assert.Equal(t, "secret1", s.Password)
		assert.False(t, s.Submitting)
		assert.Empty(t, f.history.Visits())
	})

	t.Run("server message is shown", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		f.api.resp = &models.AuthResponse{Success: false, Message: "Invalid credentials"}
		f.api.err = errors.New("401")

		out, err := f.ctrl.Submit(ctx)
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", out.Message)
		n, _ := f.notifier.Current()
		assert.Equal(t, "Invalid credentials", n.Message)
	})

	t.Run("2xx without success flag", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		f.api.resp = &models.AuthResponse{Success: false, Message: "Account locked"}

		_, err := f.ctrl.Submit(ctx)
		assert.ErrorIs(t, err, shared.ErrAuthFailed)
		n, _ := f.notifier.Current()
		assert.Equal(t, "Account locked", n.Message)
	})

	t.Run("success without token is not persisted", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		f.api.resp = &models.AuthResponse{Success: true, Message: "ok", User: &models.User{ID: "u1"}}

		_, err := f.ctrl.Submit(ctx)
		assert.ErrorIs(t, err, shared.ErrAPIRequest)

		sess, err := f.store.Read(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
		n, _ := f.notifier.Current()
		assert.Equal(t, DefaultFailureMessage, n.Message)
	})

	t.Run("validation failure never reaches the API", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.ctrl.SetField(FieldEmail, "not-an-email")
		f.ctrl.SetField(FieldPassword, "x")

		out, err := f.ctrl.Submit(ctx)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, MsgEmailInvalid, out.Message)
		assert.Empty(t, f.api.calls)

		n, ok := f.notifier.Current()
		require.True(t, ok)
		assert.Equal(t, notify.KindError, n.Kind)
		assert.Equal(t, MsgEmailInvalid, n.Message)
		assert.Equal(t, "not-an-email", f.ctrl.State().Email)
	})

	t.Run("storage failure is a failure", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		f.api.resp = welcome()
		f.ctrl.store = failingWriter{}

		_, err := f.ctrl.Submit(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.Equal(t, "secret1", f.ctrl.State().Password)
	})
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, models.Session) error { return shared.ErrStorage }

func TestBeginComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("double submission is rejected", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()

		req, err := f.ctrl.Begin()
		require.NoError(t, err)
		assert.True(t, f.ctrl.State().Submitting)

		_, err = f.ctrl.Begin()
		assert.ErrorIs(t, err, ErrSubmitInProgress)

		_, err = f.ctrl.Complete(ctx, req, welcome(), nil)
		require.NoError(t, err)
		assert.False(t, f.ctrl.State().Submitting)
	})

	t.Run("visibility toggles stay interactive while submitting", func(t *testing.T) {
		f := newFixture(ModeRegister)
		f.ctrl.SetField(FieldName, "Jo")
		f.ctrl.SetField(FieldEmail, "jo@example.com")
		f.ctrl.SetField(FieldPassword, "abcdef")
		f.ctrl.SetField(FieldConfirmPassword, "abcdef")

		_, err := f.ctrl.Begin()
		require.NoError(t, err)
		assert.True(t, f.ctrl.TogglePassword())
		assert.True(t, f.ctrl.ToggleConfirmPassword())
		assert.False(t, f.ctrl.TogglePassword())
	})

	t.Run("completing twice is stale", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		req, err := f.ctrl.Begin()
		require.NoError(t, err)

		_, err = f.ctrl.Complete(ctx, req, nil, shared.ErrAPIRequest)
		require.ErrorIs(t, err, shared.ErrAPIRequest)

		_, err = f.ctrl.Complete(ctx, req, welcome(), nil)
		assert.ErrorIs(t, err, ErrStaleResult)
		sess, _ := f.store.Read(ctx)
		assert.Nil(t, sess)
	})

	t.Run("result of an older attempt is stale", func(t *testing.T) {
		f := newFixture(ModeLogin)
		f.fillLogin()
		old, err := f.ctrl.Begin()
		require.NoError(t, err)
		_, err = f.ctrl.Complete(ctx, old, nil, shared.ErrAPIRequest)
		require.Error(t, err)

		_, err = f.ctrl.Begin()
		require.NoError(t, err)
		_, err = f.ctrl.Complete(ctx, old, welcome(), nil)
		assert.ErrorIs(t, err, ErrStaleResult)
		assert.True(t, f.ctrl.State().Submitting)
	})
}

func TestSwitchPage(t *testing.T) {
	states := []func(c *Controller){
		func(c *Controller) {},
		func(c *Controller) {
			c.SetField(FieldName, "Jo")
			c.SetField(FieldEmail, "jo@example.com")
			c.SetField(FieldPassword, "hunter22")
			c.SetField(FieldConfirmPassword, "hunter22")
		},
		func(c *Controller) {
			c.SetField(FieldPassword, "secret")
			c.TogglePassword()
			c.ToggleConfirmPassword()
		},
	}

	for i, prepare := range states {
		for _, from := range []Mode{ModeLogin, ModeRegister} {
			for _, to := range []Mode{ModeLogin, ModeRegister} {
				f := newFixture(from)
				prepare(f.ctrl)
				f.notifier.Show("something", notify.KindError)

				f.ctrl.SwitchPage(to)

				assert.Equal(t, FormState{Mode: to}, f.ctrl.State(), "state %d %s→%s", i, from, to)
				_, visible := f.notifier.Current()
				assert.False(t, visible)
			}
		}
	}
}
