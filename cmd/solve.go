package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/fincast/fincast"
	"github.com/fincast/fincast/lpsolve"
	"github.com/fincast/fincast/renderer"
)

// solveCmd holds the flags for the 'solve' subcommand.
type solveCmd struct {
	planFile string
	asJSON   bool
}

func (*solveCmd) Name() string     { return "solve" }
func (*solveCmd) Synopsis() string { return "solve goals into suggested monthly transactions" }
func (*solveCmd) Usage() string {
	return `fc solve -plan <plan.json> [-json]

  Solves the plan's goals against the scenario and prints the suggested
  transactions with the solver's explanation.
`
}

func (c *solveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.planFile, "plan", "plan.json", "Path to the plan file with goals and constraints (JSON)")
	f.BoolVar(&c.asJSON, "json", false, "Print the raw solution as JSON")
}

func (c *solveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := loadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	plan, err := loadPlan(c.planFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	solver := fincast.NewSolver(lpsolve.Provider, fincast.WithLogger(logger()))
	sol := solver.Solve(ctx, s, plan.Goals, &plan.Constraints)

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sol); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		printMarkdown(renderer.SolutionMarkdown(s, sol))
	}
	if !sol.Feasible {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
