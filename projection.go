package fincast

import (
	"fmt"

	"github.com/fincast/fincast/date"
	"github.com/shopspring/decimal"
)

// ProjectionRecord is one account balance snapshot at the start of a
// projection period, together with the flows that produced it.
type ProjectionRecord struct {
	ScenarioID int       `json:"scenarioId"`
	AccountID  int       `json:"accountId"`
	Account    string    `json:"accountName"`
	Date       date.Date `json:"date"`
	Period     int       `json:"period"`
	Balance    float64   `json:"balance"`
	Income     float64   `json:"income"`
	Expenses   float64   `json:"expenses"`
	NetChange  float64   `json:"netChange"`
	Interest   float64   `json:"interest"`
}

// ProjectionOptions tune a projection run. The zero value projects the
// scenario's own window month by month.
type ProjectionOptions struct {
	// Window overrides the scenario window when non-zero.
	Window date.Range
	// Periodicity sets the grain of the timeline. Defaults to Monthly.
	Periodicity date.Period
}

// roundCents rounds an amount to two decimal places, half away from zero.
func roundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// GenerateProjections walks every account of the scenario through the
// projection window, one record per account per period. Within a period
// the account's periodic change is applied first, then the transaction
// flows of that period. Each record's Balance is the balance at the end
// of its period, rounded to cents; the sub-cent remainder still carries
// into the next period so long runs do not drift.
func GenerateProjections(s *Scenario, opts ProjectionOptions) ([]ProjectionRecord, error) {
	window := opts.Window
	if window.IsZero() {
		window = s.Window()
	}
	if window.To.Before(window.From) {
		return nil, fmt.Errorf("projection window is inverted: %s after %s", window.From, window.To)
	}
	periodicity := opts.Periodicity
	if periodicity == 0 {
		periodicity = date.Monthly
	}
	windows := window.Windows(periodicity)
	occurrences := expandTransactions(s.Transactions, window, s)

	records := make([]ProjectionRecord, 0, len(s.Accounts)*len(windows))
	for i := range s.Accounts {
		acc := &s.Accounts[i]
		balance := acc.StartingBalance
		// Simple interest accrues on the starting principal only.
		principal := acc.StartingBalance
		next := 0 // cursor into occurrences, which are date-sorted
		for p, w := range windows {
			rec := ProjectionRecord{
				ScenarioID: s.ID,
				AccountID:  acc.ID,
				Account:    acc.Name,
				Date:       w.From,
				Period:     p,
			}

			if acc.Change != nil && !acc.Change.IsZero() {
				years := float64(w.Days()) / daysPerYear
				var grown float64
				if acc.Change.Type == SimpleInterest && acc.Change.Mode == Percentage {
					grown = balance + principal*acc.Change.AnnualRate()*years
				} else {
					grown = acc.Change.Apply(balance, years)
				}
				delta := grown - balance
				rec.Interest = delta
				if delta >= 0 {
					rec.Income += delta
				} else {
					rec.Expenses += -delta
				}
				balance = grown
			}

			for ; next < len(occurrences) && !occurrences[next].Date.After(w.To); next++ {
				occ := occurrences[next]
				flow, ok := accountFlow(occ, acc.ID)
				if !ok {
					continue
				}
				if flow >= 0 {
					rec.Income += flow
				} else {
					rec.Expenses += -flow
				}
				balance += flow
			}
			rec.NetChange = rec.Income - rec.Expenses
			rec.Balance = roundCents(balance)
			rec.Income = roundCents(rec.Income)
			rec.Expenses = roundCents(rec.Expenses)
			rec.NetChange = roundCents(rec.NetChange)
			rec.Interest = roundCents(rec.Interest)
			records = append(records, rec)
		}
	}
	return records, nil
}

// accountFlow returns the signed effect of an occurrence on the given
// account, or ok=false when the occurrence does not touch it. An inflow
// credits the primary account and debits the secondary; an outflow does
// the reverse.
func accountFlow(occ Occurrence, accountID int) (flow float64, ok bool) {
	t := occ.Transaction
	sign := 0.0
	switch {
	case t.Primary == accountID:
		if t.Type == Outflow {
			sign = -1
		} else {
			sign = 1
		}
	case t.Secondary != 0 && t.Secondary == accountID:
		if t.Type == Outflow {
			sign = 1
		} else {
			sign = -1
		}
	default:
		return 0, false
	}
	return sign * occ.Amount, true
}
