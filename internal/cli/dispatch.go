// Package cli turns command lines into guarded navigations between views.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"fintrack/internal/commands"
	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/logging"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
	"fintrack/internal/storage"
)

// ServiceFactory creates a Service for one invocation.
// nav receives navigations requested by the backend, such as the redirect to
// login after the API rejects the session token.
type ServiceFactory func(ctx context.Context, cfg *config.Config, sess *session.Session, nav router.Navigator, logger *slog.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// pendingNav records the last navigation requested while a command ran.
type pendingNav struct {
	mu   sync.Mutex
	name string
}

func (p *pendingNav) Navigate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

func (p *pendingNav) take() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := p.name
	p.name = ""
	return name
}

// Run parses arguments and dispatches to the appropriate command.
// The first argument is a command name or a view path such as /accounts/7.
// No arguments opens "/". Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatchPath(ctx, "/", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if strings.HasPrefix(cmdName, "/") {
		return d.dispatchPath(ctx, cmdName, args[1:], out, errOut)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// dispatchPath resolves a view path and runs the command rendering it.
// The :id parameter becomes the first positional argument.
func (d *Dispatcher) dispatchPath(ctx context.Context, path string, args []string, out, errOut io.Writer) int {
	route, params, ok := router.Match(path)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown view: %s\n", path)
		return exitcode.UserError
	}
	cmd, ok := d.registry.Find(route.Command)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", route.Command)
		return exitcode.UserError
	}
	if id, ok := params["id"]; ok {
		args = append([]string{id}, args...)
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := logging.New(errOut, cfg.LogLevel, cfg.LogFormat, cfg.Debug)
	sess := session.New(storage.NewLocal(cfg.StoragePath()), logger)
	nav := &pendingNav{}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: backend error: no backend configured")
		return exitcode.BackendError
	}
	svc, err := d.factory(ctx, cfg, sess, nav, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	inv := &invocation{
		registry: d.registry,
		cfg:      cfg,
		sess:     sess,
		svc:      svc,
		logger:   logger,
		out:      out,
		errOut:   errOut,
	}

	requested := cmd
	cmd, positionalArgs, redirectedTo, ok := inv.guard(cmd, positionalArgs)
	if !ok {
		return exitcode.UserError
	}
	code := cmd.Run(ctx, cfg, sess, svc, positionalArgs, out, errOut)

	// A navigation requested during the run (the 401 redirect to login) is
	// carried out once the command has finished, unless it points back at
	// the view that just failed.
	if next := nav.take(); next != "" && next != cmd.Route() {
		inv.follow(ctx, next)
	}

	// The login redirect aborts the requested command even when the login
	// view itself succeeds.
	if redirectedTo == router.Login {
		fmt.Fprintf(errOut, "error: not logged in, %s not run\n", requested.Name())
		return exitcode.AuthError
	}
	return code
}

// invocation carries the state shared by the commands run for one command line.
type invocation struct {
	registry *commands.Registry
	cfg      *config.Config
	sess     *session.Session
	svc      service.Service
	logger   *slog.Logger
	out      io.Writer
	errOut   io.Writer
}

// guard runs the navigation guard for cmd and returns the command to run
// along with the route it was redirected to, if any.
// A redirected command starts from its default flags and no arguments.
func (inv *invocation) guard(cmd commands.Command, args []string) (commands.Command, []string, string, bool) {
	route, ok := router.Lookup(cmd.Route())
	if !ok {
		return cmd, args, "", true
	}
	target, redirect := router.DecideRedirect(route, inv.sess.IsAuthenticated())
	if !redirect {
		return cmd, args, "", true
	}

	next, ok := inv.registry.ForRoute(target)
	if !ok {
		fmt.Fprintf(inv.errOut, "error: unknown view: %s\n", target)
		return nil, nil, "", false
	}
	inv.logger.Debug("navigation redirected", "from", route.Name, "to", target)

	resetFlags(next)
	return next, nil, target, true
}

// follow performs a navigation requested by the backend.
// The result is advisory: the exit code of the original command stands.
func (inv *invocation) follow(ctx context.Context, name string) {
	route, ok := router.Lookup(name)
	if !ok {
		return
	}
	cmd, ok := inv.registry.Find(route.Command)
	if !ok {
		return
	}
	inv.logger.Debug("following navigation", "to", name)

	resetFlags(cmd)

	cmd, args, _, ok := inv.guard(cmd, nil)
	if !ok {
		return
	}
	cmd.Run(ctx, inv.cfg, inv.sess, inv.svc, args, inv.out, inv.errOut)
}

// resetFlags restores cmd's flag fields to their defaults.
func resetFlags(cmd commands.Command) {
	cmd.RegisterFlags(flag.NewFlagSet(cmd.Name(), flag.ContinueOnError))
}

// reportFlagError prints a flag parsing error and returns the exit code.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		// Extract flag name
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
