// Package renderer formats forecasting results as markdown reports.
package renderer

import (
	"fmt"
	"strings"

	"github.com/fincast/fincast"
)

// mdRenderer accumulates a markdown report.
type mdRenderer struct {
	*strings.Builder
	currency string
}

func (r *mdRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func (r *mdRenderer) money(v float64) string {
	return fincast.M(v, r.currency).String()
}

func (r *mdRenderer) signedMoney(v float64) string {
	return fincast.M(v, r.currency).SignedString()
}

func currencyOf(s *fincast.Scenario) string {
	if s != nil && s.Currency != "" {
		return s.Currency
	}
	return "USD"
}

// ProjectionMarkdown renders a projection run as one markdown table per
// account.
func ProjectionMarkdown(s *fincast.Scenario, records []fincast.ProjectionRecord) string {
	r := &mdRenderer{Builder: &strings.Builder{}, currency: currencyOf(s)}
	r.Printf("# Projection: %s\n\n", s.Name)
	r.Printf("%s to %s\n\n", s.Start, s.End)

	byAccount := map[int][]fincast.ProjectionRecord{}
	var order []int
	for _, rec := range records {
		if _, ok := byAccount[rec.AccountID]; !ok {
			order = append(order, rec.AccountID)
		}
		byAccount[rec.AccountID] = append(byAccount[rec.AccountID], rec)
	}
	for _, id := range order {
		recs := byAccount[id]
		r.Printf("## %s\n\n", recs[0].Account)
		r.Printf("| Date | Income | Expenses | Interest | Net | Balance |\n")
		r.Printf("|:---|---:|---:|---:|---:|---:|\n")
		for _, rec := range recs {
			r.Printf("| %s | %s | %s | %s | %s | %s |\n",
				rec.Date, r.money(rec.Income), r.money(rec.Expenses),
				r.signedMoney(rec.Interest), r.signedMoney(rec.NetChange), r.money(rec.Balance))
		}
		r.Printf("\n")
	}
	return r.String()
}

// SolutionMarkdown renders a goal solve outcome: the suggested
// transactions, then the solver's explanation, warnings, and issues.
func SolutionMarkdown(s *fincast.Scenario, sol *fincast.Solution) string {
	r := &mdRenderer{Builder: &strings.Builder{}, currency: currencyOf(s)}
	if sol.Feasible {
		r.Printf("# Goal Plan (feasible)\n\n")
	} else {
		r.Printf("# Goal Plan (not feasible)\n\n")
	}

	if len(sol.Suggested) > 0 {
		r.Printf("## Suggested Transactions\n\n")
		r.Printf("| Description | Monthly | From | To | Account |\n")
		r.Printf("|:---|---:|:---|:---|:---|\n")
		for _, t := range sol.Suggested {
			from, to := "", ""
			if t.Recurrence != nil {
				from, to = t.Recurrence.Start.String(), t.Recurrence.End.String()
			}
			name := fmt.Sprintf("account %d", t.Primary)
			if acc := s.Account(t.Primary); acc != nil {
				name = acc.Name
			}
			r.Printf("| %s | %s | %s | %s | %s |\n", t.Description, r.money(t.Amount), from, to, name)
		}
		r.Printf("\n")
	}

	if len(sol.Explanation) > 0 {
		r.Printf("## Explanation\n\n")
		for _, line := range sol.Explanation {
			r.Printf("%s\n", line)
		}
		r.Printf("\n")
	}
	if len(sol.Warnings) > 0 {
		r.Printf("## Warnings\n\n")
		for _, w := range sol.Warnings {
			r.Printf("- %s\n", w)
		}
		r.Printf("\n")
	}
	if len(sol.Issues) > 0 {
		r.Printf("## Issues\n\n")
		for _, i := range sol.Issues {
			r.Printf("- %s\n", i)
		}
		r.Printf("\n")
	}
	return r.String()
}
