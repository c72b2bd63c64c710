// Package cmd implements the CLI application to run forecasts and goal
// solves on a scenario file.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/fincast/fincast"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&projectCmd{}, "forecast")
	c.Register(&occurrencesCmd{}, "forecast")
	c.Register(&solveCmd{}, "goals")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var scenarioFile = flag.String("scenario-file", "scenario.json", "Path to the scenario file (JSON)")
var verbose = flag.Bool("v", false, "Enable debug logging")

// logger returns the app logger, console-formatted on stderr.
func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// loadScenario reads the scenario named by the -scenario-file flag.
func loadScenario() (*fincast.Scenario, error) {
	f, err := os.Open(*scenarioFile)
	if err != nil {
		return nil, fmt.Errorf("could not open scenario file %q: %w", *scenarioFile, err)
	}
	defer f.Close()
	return fincast.DecodeScenario(f)
}

// loadPlan reads a goals-and-constraints plan file.
func loadPlan(path string) (*fincast.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open plan file %q: %w", path, err)
	}
	defer f.Close()
	return fincast.DecodePlan(f)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
