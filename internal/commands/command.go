// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"fintrack/internal/config"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Route returns the name of the view the command renders.
	// The navigation guard runs against it before Run.
	// Commands outside the route table (help, version, logout, rates)
	// return "" and are never redirected.
	Route() string

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg, sess and svc are always provided.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int
}
