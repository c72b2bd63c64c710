package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/fincast/fincast"
	"github.com/fincast/fincast/date"
)

// occurrencesCmd holds the flags for the 'occurrences' subcommand.
type occurrencesCmd struct {
	from string
	to   string
}

func (*occurrencesCmd) Name() string { return "occurrences" }
func (*occurrencesCmd) Synopsis() string {
	return "list the dated transaction occurrences in the window"
}
func (*occurrencesCmd) Usage() string {
	return `fc occurrences [-from <date>] [-to <date>]

  Expands the scenario's transactions, recurring ones included, and lists
  every dated occurrence with its escalated amount.
`
}

func (c *occurrencesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Window start (defaults to the scenario start)")
	f.StringVar(&c.to, "to", "", "Window end (defaults to the scenario end)")
}

func (c *occurrencesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := loadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	window := s.Window()
	if c.from != "" {
		if window.From, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.to != "" {
		if window.To, err = date.Parse(c.to); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cur := s.Currency
	if cur == "" {
		cur = "USD"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Occurrences: %s\n\n", s.Name)
	fmt.Fprintf(&b, "| Date | Type | Amount | Description |\n")
	fmt.Fprintf(&b, "|:---|:---|---:|:---|\n")
	for _, occ := range fincast.Expand(s, window) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			occ.Date, occ.Transaction.Type.Name(), fincast.M(occ.Amount, cur), occ.Transaction.Description)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
