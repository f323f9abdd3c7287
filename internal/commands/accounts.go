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
	"fintrack/internal/output"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&AccountsCmd{})
	Register(&AddAccountCmd{})
	Register(&RmAccountCmd{})
}

// AccountsCmd implements the accounts command.
type AccountsCmd struct{}

func (c *AccountsCmd) Name() string      { return "accounts" }
func (c *AccountsCmd) Aliases() []string { return nil }
func (c *AccountsCmd) Synopsis() string  { return "List accounts with balances" }
func (c *AccountsCmd) Usage() string     { return "fintrack accounts [common flags]" }
func (c *AccountsCmd) Route() string     { return router.Accounts }

func (c *AccountsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AccountsCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	accounts, err := svc.ListAccounts(ctx)
	if err != nil {
		return reportBackendError(errOut, err)
	}

	if len(accounts) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no accounts found")
		}
		return exitcode.Success
	}

	f := amounts(cfg)
	for _, a := range accounts {
		output.FormatAccount(out, f, a)
	}
	return exitcode.Success
}

// AddAccountCmd implements the addaccount command.
type AddAccountCmd struct {
	currency string
	comment  string
}

func (c *AddAccountCmd) Name() string      { return "addaccount" }
func (c *AddAccountCmd) Aliases() []string { return nil }
func (c *AddAccountCmd) Synopsis() string  { return "Create an account" }
func (c *AddAccountCmd) Usage() string {
	return "fintrack addaccount [common flags] --currency <code> [--comment <text>]"
}
func (c *AddAccountCmd) Route() string { return router.Accounts }

func (c *AddAccountCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.currency, "currency", "", "")
	fs.StringVar(&c.comment, "comment", "", "")
}

func (c *AddAccountCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: too many arguments: %s\n", strings.Join(args, " "))
		return exitcode.UserError
	}

	currency := strings.ToUpper(strings.TrimSpace(c.currency))
	if currency == "" {
		fmt.Fprintln(errOut, "error: currency required")
		return exitcode.UserError
	}
	if !isCurrencyCode(currency) {
		fmt.Fprintf(errOut, "error: invalid currency code: %s\n", c.currency)
		return exitcode.UserError
	}

	account, err := svc.CreateAccount(ctx, service.NewAccount{
		Currency: currency,
		Comment:  strings.TrimSpace(c.comment),
	})
	if err != nil {
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok (account %d)\n", account.ID)
	}
	return exitcode.Success
}

// isCurrencyCode reports whether s looks like an ISO 4217 code.
func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// RmAccountCmd implements the rmaccount command.
type RmAccountCmd struct{}

func (c *RmAccountCmd) Name() string      { return "rmaccount" }
func (c *RmAccountCmd) Aliases() []string { return nil }
func (c *RmAccountCmd) Synopsis() string  { return "Delete an account" }
func (c *RmAccountCmd) Usage() string     { return "fintrack rmaccount [common flags] <account-id>" }
func (c *RmAccountCmd) Route() string     { return router.Accounts }

func (c *RmAccountCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmAccountCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleID("account", args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if err := svc.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: account not found: %d\n", id)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
