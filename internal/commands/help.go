package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "fintrack help" }
func (c *HelpCmd) Route() string     { return "" }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  fintrack                                           List accounts
  fintrack <path>                                    Open a view by path, e.g. /accounts/3
  fintrack login [common flags] [--email <email>] [--password <password>]
  fintrack register [common flags] --email <email> --password <password>
  fintrack logout [common flags]
  fintrack accounts [common flags]
  fintrack account [common flags] <account-id>
  fintrack addaccount [common flags] --currency <code> [--comment <text>]
  fintrack rmaccount [common flags] <account-id>
  fintrack addtx [common flags] --account <id> [--category <id>] [--comment <text>] [--expense] <amount>
  fintrack categories [common flags]
  fintrack addcategory [common flags] <name...>
  fintrack rmcategory [common flags] <category-id>
  fintrack stats [common flags] [--from YYYY-MM-DD] [--to YYYY-MM-DD] [--account <id>]
  fintrack rates [common flags]
  fintrack help
  fintrack version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  FINTRACK_API_URL                     API base URL (default http://localhost:8080)
  FINTRACK_EMAIL, FINTRACK_PASSWORD    Credentials used by login when flags are absent
  FINTRACK_LOCALE                      Locale for amounts (default from LC_ALL, LC_NUMERIC, LANG)
  FINTRACK_LOG_LEVEL, FINTRACK_LOG_FORMAT
`
