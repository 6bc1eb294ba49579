package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/waslerr/internal/services"
	"github.com/desertthunder/waslerr/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	if err := config.ApplyEnv(); err != nil {
		logger.Warn("failed to apply environment overrides", "error", err)
	}

	api := services.NewAuthService(config.API.BaseURL, nil)
	api.SetTimeout(config.API.Timeout())
	api.SetRateLimit(config.API.RateLimit)

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    api,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "waslerr",
		Usage:    "Browse the Waslerrfields catalog and manage your account from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
