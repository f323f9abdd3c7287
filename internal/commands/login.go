package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session token" }
func (c *LoginCmd) Usage() string {
	return "fintrack login [common flags] [--email <email>] [--password <password>]"
}
func (c *LoginCmd) Route() string { return router.Login }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	creds, ok := credentials(c.email, c.password, cfg)
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: fintrack login --email <email> --password <password>)")
		return exitcode.AuthError
	}

	token, err := svc.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			fmt.Fprintln(errOut, "error: invalid email or password")
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	sess.SetToken(token)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// credentials combines flag values with FINTRACK_EMAIL and FINTRACK_PASSWORD.
// Flags win. Reports false when either part is missing.
func credentials(email, password string, cfg *config.Config) (service.Credentials, bool) {
	if email == "" {
		email = cfg.Email
	}
	if password == "" {
		password = cfg.Password
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return service.Credentials{}, false
	}
	return service.Credentials{Email: email, Password: password}, true
}
