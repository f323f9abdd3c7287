// Package main is the entry point for the fintrack CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/backend/financeapi"
	"fintrack/internal/cli"
	"fintrack/internal/commands"
	"fintrack/internal/config"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config, sess *session.Session, nav router.Navigator, logger *slog.Logger) (service.Service, error) {
		return financeapi.New(cfg, sess, nav, logger), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
