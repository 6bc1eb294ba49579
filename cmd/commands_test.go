package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/session"
	"github.com/desertthunder/waslerr/internal/shared"
	tu "github.com/desertthunder/waslerr/internal/testing"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v3"
)

type harness struct {
	runner *Runner
	api    *tu.MockAuthenticator
	store  *session.MemoryStore
	output *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api:    &tu.MockAuthenticator{},
		store:  session.NewMemoryStore(),
		output: &bytes.Buffer{},
	}
	h.runner = NewRunner(RunnerOpts{
		API:    h.api,
		Store:  h.store,
		Output: h.output,
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Now:    func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
	})
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "waslerr", Commands: h.runner.register()}
	return app.Run(t.Context(), append([]string{"waslerr"}, args...))
}

func (h *harness) signIn(t *testing.T, token string) {
	t.Helper()
	err := h.store.Write(t.Context(), models.Session{
		Token: token,
		User:  models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: "user"},
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tok
}

func TestAuthCommands(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		t.Run("stores the session on success", func(t *testing.T) {
			h := newHarness(t)
			h.api.Response = &models.AuthResponse{
				Success: true,
				Message: "Login successful",
				Token:   "jwt",
				User:    &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
			}

			if err := h.run(t, "auth", "login", "--email", "ada@example.com", "--password", "secret"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if token, _ := h.store.Raw(session.KeyToken); token != "jwt" {
				t.Errorf("expected stored token jwt, got %q", token)
			}
			if h.api.Last.Name != "" {
				t.Errorf("expected no name on login, got %q", h.api.Last.Name)
			}
			if !strings.Contains(h.output.String(), "Login successful") {
				t.Errorf("expected server message in output, got %q", h.output.String())
			}
		})

		t.Run("rejects an invalid email before calling the API", func(t *testing.T) {
			h := newHarness(t)

			err := h.run(t, "auth", "login", "--email", "not-an-email", "--password", "secret")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(h.api.Calls) != 0 {
				t.Errorf("expected no API calls, got %v", h.api.Calls)
			}
		})

		t.Run("reports the server message on failure", func(t *testing.T) {
			h := newHarness(t)
			h.api.Response = &models.AuthResponse{Success: false, Message: "Invalid credentials"}

			err := h.run(t, "auth", "login", "--email", "ada@example.com", "--password", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "Invalid credentials") {
				t.Errorf("expected server message, got %v", err)
			}
			if _, ok := h.store.Raw(session.KeyToken); ok {
				t.Error("expected no stored session")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		t.Run("confirmation defaults to the password", func(t *testing.T) {
			h := newHarness(t)
			h.api.Response = &models.AuthResponse{
				Success: true,
				Message: "User registered successfully",
				Token:   "jwt",
				User:    &models.User{ID: "u2", Name: "Bo", Email: "bo@example.com"},
			}

			err := h.run(t, "auth", "register", "--name", "Bo", "--email", "bo@example.com", "--password", "secret")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if h.api.Last.Name != "Bo" {
				t.Errorf("expected name Bo, got %q", h.api.Last.Name)
			}
		})

		t.Run("mismatched confirmation", func(t *testing.T) {
			h := newHarness(t)

			err := h.run(t, "auth", "register", "--name", "Bo", "--email", "bo@example.com",
				"--password", "secret", "--confirm-password", "other")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), "Passwords do not match") {
				t.Errorf("expected mismatch message, got %v", err)
			}
		})
	})

	t.Run("logout clears the session", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t, "tok")

		if err := h.run(t, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := h.store.Raw(session.KeyUser); ok {
			t.Error("expected user to be cleared")
		}
	})

	t.Run("status", func(t *testing.T) {
		t.Run("not signed in", func(t *testing.T) {
			h := newHarness(t)

			if err := h.run(t, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if h.output.String() != "Not signed in\n" {
				t.Errorf("unexpected output %q", h.output.String())
			}
		})

		t.Run("shows the token expiry", func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, signedToken(t, time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)))

			if err := h.run(t, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out := h.output.String()
			if !strings.Contains(out, "Signed in as Ada") {
				t.Errorf("expected user in output, got %q", out)
			}
			if !strings.Contains(out, "expires 2025-01-02T12:00:00Z") {
				t.Errorf("expected expiry in output, got %q", out)
			}
		})

		t.Run("json output", func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, signedToken(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))

			if err := h.run(t, "auth", "status", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var got statusOutput
			if err := json.Unmarshal(h.output.Bytes(), &got); err != nil {
				t.Fatalf("expected valid JSON, got %v", err)
			}
			if !got.Authenticated || got.User == nil || got.User.Email != "ada@example.com" {
				t.Errorf("unexpected status %+v", got)
			}
			if !got.Expired {
				t.Error("expected expired token")
			}
		})

		t.Run("malformed session is purged", func(t *testing.T) {
			h := newHarness(t)
			h.store.SetRaw(session.KeyToken, "tok")
			h.store.SetRaw(session.KeyUser, "{not json")

			if err := h.run(t, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := h.store.Raw(session.KeyUser); ok {
				t.Error("expected malformed user to be cleared")
			}
		})
	})

	t.Run("whoami", func(t *testing.T) {
		t.Run("shows the server profile", func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, "tok")
			h.api.User = &models.User{ID: "u1", Email: "ada@example.com"}

			if err := h.run(t, "auth", "whoami"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if h.api.Token != "tok" {
				t.Errorf("expected bearer tok, got %q", h.api.Token)
			}
			if !strings.Contains(h.output.String(), "Signed in as User") {
				t.Errorf("expected defaulted name, got %q", h.output.String())
			}
		})

		t.Run("rejected token clears the session", func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, "tok")
			h.api.MeErr = shared.ErrInvalidToken

			err := h.run(t, "auth", "whoami")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			if _, ok := h.store.Raw(session.KeyToken); ok {
				t.Error("expected session to be cleared")
			}
		})

		t.Run("not signed in", func(t *testing.T) {
			h := newHarness(t)

			if err := h.run(t, "auth", "whoami"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(h.api.Calls) != 0 {
				t.Errorf("expected no API calls, got %v", h.api.Calls)
			}
		})
	})
}

func TestAlbumsCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run(t, "albums", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, a := range models.FeaturedAlbums() {
			if !strings.Contains(h.output.String(), a.Title) {
				t.Errorf("expected %q in output", a.Title)
			}
		}
	})

	t.Run("list filtered by genre as JSON", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run(t, "albums", "list", "--genre", "ambient", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got []models.Album
		if err := json.Unmarshal(h.output.Bytes(), &got); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(got) != 1 || got[0].Title != "Ocean Breeze" {
			t.Errorf("unexpected albums %+v", got)
		}
	})

	t.Run("show", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run(t, "albums", "show", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.output.String()
		if !strings.Contains(out, "Midnight Dreams") || !strings.Contains(out, "save $3.00") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("show unknown album", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(t, "albums", "show", "99")
		if !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Fatalf("expected ErrAlbumNotFound, got %v", err)
		}
	})

	t.Run("genres", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run(t, "albums", "genres"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "45 albums") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("export", func(t *testing.T) {
		h := newHarness(t)
		path := filepath.Join(t.TempDir(), "albums.md")

		if err := h.run(t, "albums", "export", "--format", "md", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "Neon Lights") {
			t.Error("expected album in export")
		}
	})

	t.Run("export rejects unknown formats", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(t, "albums", "export", "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		h := newHarness(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := h.run(t, "setup", "config", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Fatalf("expected loadable config, got %v", err)
		}

		if err := h.run(t, "setup", "config", "--output", path); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for an existing file, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv(shared.EnvDBPath, filepath.Join(dir, "store.db"))
		h := newHarness(t)

		if err := h.run(t, "setup", "database", "--config", filepath.Join(dir, "config.toml")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, filepath.Join(dir, "store.db"))
	})
}
