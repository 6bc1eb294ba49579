package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/waslerr/internal/repositories"
	"github.com/desertthunder/waslerr/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the local auth API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	host, port := cfg.Host, cfg.Port
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}

	tokens, err := server.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "change-me" {
		r.logger.Warn("server.jwt_secret is the example value; set WASLERR_JWT_SECRET outside development")
	}

	db, err := r.openDatabase(ctx)
	if err != nil {
		return err
	}

	handler := server.NewAuthHandler(repositories.NewAccountRepository(db), tokens, r.logger)
	api := server.NewAuthAPI(handler, cfg.AllowedOrigins, r.logger)
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	srv := server.NewServer(addr, api, r.logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Auth API listening on http://%s/api/auth\n", addr)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
