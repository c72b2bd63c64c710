package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/fincast/fincast"
	"github.com/fincast/fincast/date"
	"github.com/fincast/fincast/renderer"
)

// projectCmd holds the flags for the 'project' subcommand.
type projectCmd struct {
	period string
	from   string
	to     string
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project account balances over the scenario window" }
func (*projectCmd) Usage() string {
	return `fc project [-period <period>] [-from <date>] [-to <date>]

  Projects every account of the scenario period by period and prints the
  balance timelines.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "month", "Projection periodicity (day, week, month, quarter, year)")
	f.StringVar(&c.from, "from", "", "Override the window start (defaults to the scenario start)")
	f.StringVar(&c.to, "to", "", "Override the window end (defaults to the scenario end)")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := loadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := c.options(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	records, err := fincast.GenerateProjections(s, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ProjectionMarkdown(s, records))
	return subcommands.ExitSuccess
}

func (c *projectCmd) options(s *fincast.Scenario) (fincast.ProjectionOptions, error) {
	var opts fincast.ProjectionOptions
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return opts, err
	}
	opts.Periodicity = period
	window := s.Window()
	if c.from != "" {
		if window.From, err = date.Parse(c.from); err != nil {
			return opts, err
		}
	}
	if c.to != "" {
		if window.To, err = date.Parse(c.to); err != nil {
			return opts, err
		}
	}
	opts.Window = window
	return opts, nil
}
