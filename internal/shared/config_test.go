package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./waslerr.db" {
			t.Errorf("expected database path ./waslerr.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "https://waslerrfields-backend.vercel.app/api/auth" {
			t.Errorf("unexpected api base url %s", config.API.BaseURL)
		}

		if config.UI.DesktopMinWidth != 1024 {
			t.Errorf("expected desktop min width 1024, got %d", config.UI.DesktopMinWidth)
		}

		if config.UI.ToastDuration() != 5*time.Second {
			t.Errorf("expected toast duration 5s, got %v", config.UI.ToastDuration())
		}

		if config.Server.Addr() != "127.0.0.1:5000" {
			t.Errorf("expected server addr 127.0.0.1:5000, got %s", config.Server.Addr())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://localhost:5000/api/auth"
timeout_seconds = 3

[database]
path = "/custom/path.db"

[ui]
cell_width = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:5000/api/auth" {
			t.Errorf("expected custom base url, got %s", config.API.BaseURL)
		}
		if config.API.Timeout() != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", config.API.Timeout())
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.UI.CellWidth != 10 {
			t.Errorf("expected cell width 10, got %d", config.UI.CellWidth)
		}
		if config.UI.DesktopMinWidth != 1024 {
			t.Errorf("missing values should keep defaults, got %d", config.UI.DesktopMinWidth)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.API.BaseURL = "ftp://example.com"

		err := config.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}

		config = DefaultConfig()
		config.UI.ToastSeconds = 0
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for zero toast seconds, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		tmpDir := t.TempDir()
		envPath := filepath.Join(tmpDir, ".env")
		if err := os.WriteFile(envPath, []byte("WASLERR_DB_PATH=/from/dotenv.db\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(EnvAPIURL, "http://127.0.0.1:9999/api/auth/")
		t.Setenv(EnvDBPath, "")
		os.Unsetenv(EnvDBPath)

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.API.BaseURL != "http://127.0.0.1:9999/api/auth" {
			t.Errorf("expected env base url without trailing slash, got %s", config.API.BaseURL)
		}
		if config.Database.Path != "/from/dotenv.db" {
			t.Errorf("expected db path from .env, got %s", config.Database.Path)
		}
		os.Unsetenv(EnvDBPath)
	})
}
