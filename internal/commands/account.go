package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/output"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&AccountCmd{})
	Register(&AddTxCmd{})
}

// AccountCmd implements the account command (account detail view).
type AccountCmd struct{}

func (c *AccountCmd) Name() string      { return "account" }
func (c *AccountCmd) Aliases() []string { return nil }
func (c *AccountCmd) Synopsis() string  { return "Show an account and its transactions" }
func (c *AccountCmd) Usage() string     { return "fintrack account [common flags] <account-id>" }
func (c *AccountCmd) Route() string     { return router.AccountDetail }

func (c *AccountCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AccountCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleID("account", args, errOut)
	if !ok {
		return exitcode.UserError
	}

	account, err := svc.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: account not found: %d\n", id)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	txs, err := svc.ListTransactions(ctx, id)
	if err != nil {
		return reportBackendError(errOut, err)
	}

	f := amounts(cfg)
	output.FormatAccountHeader(out, f, account)
	for _, tx := range txs {
		output.FormatTransaction(out, f, tx)
	}
	if len(txs) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no transactions")
	}
	return exitcode.Success
}

// AddTxCmd implements the addtx command.
type AddTxCmd struct {
	account  string
	category string
	comment  string
	expense  bool
}

func (c *AddTxCmd) Name() string      { return "addtx" }
func (c *AddTxCmd) Aliases() []string { return []string{"tx"} }
func (c *AddTxCmd) Synopsis() string  { return "Record income or, with --expense, an expense" }
func (c *AddTxCmd) Usage() string {
	return "fintrack addtx [common flags] --account <id> [--category <id>] [--comment <text>] [--expense] <amount>"
}
func (c *AddTxCmd) Route() string { return router.AccountDetail }

func (c *AddTxCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.account, "account", "", "")
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.comment, "comment", "", "")
	fs.BoolVar(&c.expense, "expense", false, "")
}

func (c *AddTxCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.account == "" {
		fmt.Fprintln(errOut, "error: account id required (use --account)")
		return exitcode.UserError
	}
	accountID, err := parseID("account", c.account)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var categoryID *int
	if c.category != "" {
		id, err := parseID("category", c.category)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		categoryID = &id
	}

	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: amount required")
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: too many arguments: %s\n", strings.Join(args[1:], " "))
		return exitcode.UserError
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.expense {
		amount = amount.Neg()
	}

	_, err = svc.CreateTransaction(ctx, accountID, service.NewTransaction{
		Amount:     amount.InexactFloat64(),
		Comment:    strings.TrimSpace(c.comment),
		CategoryID: categoryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: account not found: %d\n", accountID)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseAmount parses a positive amount with at most two fraction digits.
// Both "12.34" and "12,34" are accepted.
func parseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: %s", raw)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive: %s", raw)
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, fmt.Errorf("amount has more than two decimals: %s", raw)
	}
	return d, nil
}
