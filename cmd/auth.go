package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/waslerr/internal/auth"
	"github.com/desertthunder/waslerr/internal/formatter"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/nav"
	"github.com/desertthunder/waslerr/internal/notify"
	"github.com/desertthunder/waslerr/internal/session"
	"github.com/desertthunder/waslerr/internal/shared"
	"github.com/urfave/cli/v3"
)

// statusOutput is the JSON shape of `auth status`.
type statusOutput struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	Expired       bool         `json:"expired"`
}

// AuthLogin signs in with --email and --password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	return r.submitAuth(ctx, auth.ModeLogin, map[auth.Field]string{
		auth.FieldEmail:    cmd.String("email"),
		auth.FieldPassword: cmd.String("password"),
	})
}

// AuthRegister creates an account. The confirmation defaults to the password.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	confirm := cmd.String("confirm-password")
	if !cmd.IsSet("confirm-password") {
		confirm = cmd.String("password")
	}
	return r.submitAuth(ctx, auth.ModeRegister, map[auth.Field]string{
		auth.FieldName:            cmd.String("name"),
		auth.FieldEmail:           cmd.String("email"),
		auth.FieldPassword:        cmd.String("password"),
		auth.FieldConfirmPassword: confirm,
	})
}

// submitAuth drives the same form controller the storefront uses.
func (r *Runner) submitAuth(ctx context.Context, mode auth.Mode, fields map[auth.Field]string) error {
	store, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}
	if r.api == nil {
		return fmt.Errorf("%w: api.base_url", shared.ErrMissingConfig)
	}

	notifier := notify.New(notify.Options{
		OnChange: func(n *notify.Notification) {
			if n != nil {
				r.logger.Debug("notification", "kind", n.Kind, "message", n.Message)
			}
		},
	})
	ctrl := auth.NewController(auth.ControllerOpts{
		API:       r.api,
		Store:     store,
		Notifier:  notifier,
		Navigator: &nav.History{},
		Logger:    r.logger,
		Mode:      mode,
	})
	for f, v := range fields {
		ctrl.SetField(f, v)
	}

	out, err := ctrl.Submit(ctx)
	if err != nil {
		var ve *auth.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", shared.ErrInvalidInput, ve.Message)
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, out.Message)
	}

	r.writePlain("✓ %s\n", out.Message)
	return r.writePlain("Signed in as %s <%s>\n", out.Session.User.DisplayName(), out.Session.User.Email)
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	ctrl := session.NewController(session.ControllerOpts{Store: store, Navigator: &nav.History{}, Logger: r.logger})
	if err := ctrl.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the stored session offline, including the token expiry when the token is a JWT.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	ctrl := session.NewController(session.ControllerOpts{Store: store, Logger: r.logger})
	state := ctrl.Initialize(ctx)

	var expiry time.Time
	if state.Authenticated {
		if sess, err := store.Read(ctx); err == nil && sess != nil {
			expiry, _ = session.TokenExpiry(sess.Token)
		}
	}

	if cmd.Bool("json") {
		out := statusOutput{Authenticated: state.Authenticated, User: state.User}
		if !expiry.IsZero() {
			out.ExpiresAt = &expiry
			out.Expired = !expiry.After(r.now())
		}
		return r.writeJSON(out, true)
	}
	return r.writePlain("%s", formatter.SessionSummary(state.User, expiry, r.now()))
}

// AuthWhoami validates the stored token with the profile endpoint.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	ctrl := session.NewController(session.ControllerOpts{Store: store, API: r.api, Logger: r.logger})
	state, err := ctrl.Refresh(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return r.writePlain("Not signed in\n")
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	var expiry time.Time
	if sess, err := store.Read(ctx); err == nil && sess != nil {
		expiry, _ = session.TokenExpiry(sess.Token)
	}
	r.writePlainHeader("Profile")
	return r.writePlain("%s", formatter.SessionSummary(state.User, expiry, r.now()))
}
