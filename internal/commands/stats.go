package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/output"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

// dateLayout is the date format of the statistics API.
const dateLayout = "2006-01-02"

func init() {
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command.
type StatsCmd struct {
	from    string
	to      string
	account string

	clock clockwork.Clock
}

// SetClock sets the clock used for the default period (for testing).
func (c *StatsCmd) SetClock(clock clockwork.Clock) {
	c.clock = clock
}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return []string{"statistics"} }
func (c *StatsCmd) Synopsis() string  { return "Income and expense by category" }
func (c *StatsCmd) Usage() string {
	return "fintrack stats [common flags] [--from YYYY-MM-DD] [--to YYYY-MM-DD] [--account <id>]"
}
func (c *StatsCmd) Route() string { return router.Statistics }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.from, "from", "", "")
	fs.StringVar(&c.to, "to", "", "")
	fs.StringVar(&c.account, "account", "", "")
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	q, err := c.query()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	stats, err := svc.Statistics(ctx, q)
	if err != nil {
		return reportBackendError(errOut, err)
	}

	if len(stats.Currencies) == 0 {
		if !cfg.Quiet {
			fmt.Fprintf(out, "no transactions between %s and %s\n", q.From, q.To)
		}
		return exitcode.Success
	}

	f := amounts(cfg)
	for _, cs := range stats.Currencies {
		output.FormatStatistics(out, f, cs)
	}
	return exitcode.Success
}

// query builds the statistics query. The period defaults to the current
// month up to today.
func (c *StatsCmd) query() (service.StatisticsQuery, error) {
	clock := c.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	now := clock.Now()

	from := now.AddDate(0, 0, 1-now.Day())
	to := now
	var err error
	if c.from != "" {
		if from, err = time.Parse(dateLayout, c.from); err != nil {
			return service.StatisticsQuery{}, fmt.Errorf("invalid --from date: %s", c.from)
		}
	}
	if c.to != "" {
		if to, err = time.Parse(dateLayout, c.to); err != nil {
			return service.StatisticsQuery{}, fmt.Errorf("invalid --to date: %s", c.to)
		}
	}

	q := service.StatisticsQuery{From: from.Format(dateLayout), To: to.Format(dateLayout)}
	if q.From > q.To {
		return service.StatisticsQuery{}, fmt.Errorf("--from is after --to")
	}

	if c.account != "" {
		id, err := parseID("account", c.account)
		if err != nil {
			return service.StatisticsQuery{}, err
		}
		q.AccountID = &id
	}
	return q, nil
}
