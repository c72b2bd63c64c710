package fincast

import (
	"slices"

	"github.com/fincast/fincast/date"
)

// daysPerYear is the mean Gregorian year length used to convert day
// counts into fractional years for escalation and interest math.
const daysPerYear = 365.25

// Occurrence is one dated instance of a transaction: a recurring
// transaction expands into many, a one-off into at most one. Amount
// carries any escalation already applied.
type Occurrence struct {
	Transaction *Transaction
	Date        date.Date
	Amount      float64
}

// Expand returns the dated occurrences of the scenario's transactions
// inside window, defaulting to the scenario's own window when zero.
func Expand(s *Scenario, window date.Range) []Occurrence {
	if window.IsZero() {
		window = s.Window()
	}
	return expandTransactions(s.Transactions, window, s)
}

// expandTransactions turns the scenario's transactions into concrete dated
// occurrences inside window, sorted by date. Actual transactions pass
// through on their recorded date with their recorded amount. Planned
// recurring transactions expand through their recurrence rule, with the
// escalation applied from the recurrence start. Transactions referring to
// an unknown primary account are dropped; a secondary reference, when
// present, must resolve too.
func expandTransactions(txs []Transaction, window date.Range, s *Scenario) []Occurrence {
	var out []Occurrence
	for i := range txs {
		t := &txs[i]
		if s.Account(t.Primary) == nil {
			continue
		}
		if t.Secondary != 0 && s.Account(t.Secondary) == nil {
			continue
		}
		if t.Status.IsActual() {
			d := t.Status.ActualDate
			if d.IsZero() {
				d = t.Effective
			}
			if !window.Contains(d) {
				continue
			}
			amount := t.Amount
			if t.Status.ActualAmount != 0 {
				amount = t.Status.ActualAmount
			}
			out = append(out, Occurrence{Transaction: t, Date: d, Amount: amount})
			continue
		}
		if t.Recurrence == nil {
			if window.Contains(t.Effective) {
				out = append(out, Occurrence{Transaction: t, Date: t.Effective, Amount: t.Amount})
			}
			continue
		}
		anchor := t.Recurrence.Start
		if anchor.IsZero() {
			anchor = t.Effective
		}
		for _, d := range t.Recurrence.Dates(window) {
			amount := t.Amount
			if t.Escalation != nil && !t.Escalation.IsZero() {
				years := float64(date.DaysBetween(anchor, d)) / daysPerYear
				if years > 0 {
					amount = t.Escalation.Apply(amount, years)
				}
			}
			out = append(out, Occurrence{Transaction: t, Date: d, Amount: amount})
		}
	}
	slices.SortStableFunc(out, func(a, b Occurrence) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case b.Date.Before(a.Date):
			return 1
		}
		return 0
	})
	return out
}
