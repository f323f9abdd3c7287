package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/output"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&RatesCmd{})
}

// RatesCmd implements the rates command. Exchange rates are public.
type RatesCmd struct{}

func (c *RatesCmd) Name() string      { return "rates" }
func (c *RatesCmd) Aliases() []string { return nil }
func (c *RatesCmd) Synopsis() string  { return "Print exchange rates to USD" }
func (c *RatesCmd) Usage() string     { return "fintrack rates [common flags]" }
func (c *RatesCmd) Route() string     { return "" }

func (c *RatesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RatesCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	rates, err := svc.ListRates(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	f := amounts(cfg)
	for _, r := range rates {
		output.FormatRate(out, f, r)
	}
	return exitcode.Success
}
