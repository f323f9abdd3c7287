package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create a user" }
func (c *RegisterCmd) Usage() string {
	return "fintrack register [common flags] --email <email> --password <password>"
}
func (c *RegisterCmd) Route() string { return router.Register }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	creds, ok := credentials(c.email, c.password, cfg)
	if !ok {
		fmt.Fprintln(errOut, "error: email and password required")
		return exitcode.UserError
	}

	if _, err := svc.Register(ctx, creds); err != nil {
		if errors.Is(err, service.ErrConflict) {
			fmt.Fprintf(errOut, "error: user already exists: %s\n", creds.Email)
			return exitcode.UserError
		}
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			fmt.Fprintf(errOut, "error: %s\n", apiErr.Message)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok (run: fintrack login)")
	}
	return exitcode.Success
}
