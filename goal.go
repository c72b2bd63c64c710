package fincast

import (
	"fmt"
	"math"
	"slices"

	"github.com/fincast/fincast/date"
)

// Goal types. A goal names an account and a target; the solver decides the
// monthly flows that get there.
const (
	GoalReachBalance = "reach_balance_by_date"
	GoalIncreaseBy   = "increase_by_delta"
	GoalPayDown      = "pay_down_by_date"
	GoalMaintain     = "maintain_floor"
)

// Goal is one objective on one account. Which amount field applies depends
// on Type: TargetAmount for reach and pay-down, DeltaAmount for increase,
// FloorAmount for maintain.
type Goal struct {
	ID           int       `json:"id"`
	Priority     int       `json:"priority"`
	AccountID    int       `json:"accountId"`
	Type         string    `json:"goalType"`
	TargetAmount *float64  `json:"targetAmount,omitempty"`
	DeltaAmount  *float64  `json:"deltaAmount,omitempty"`
	FloorAmount  *float64  `json:"floorAmount,omitempty"`
	Start        date.Date `json:"startDate,omitzero"`
	End          date.Date `json:"targetDate,omitzero"`
}

// Issue is a structured reason a goal could not be turned into a
// requirement. Issues never abort a solve; they are reported alongside it.
type Issue struct {
	GoalID  int    `json:"goalId,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.GoalID != 0 {
		return fmt.Sprintf("goal %d: %s", i.GoalID, i.Message)
	}
	return i.Message
}

// Requirement is a goal reduced to a monthly contribution: move
// MonthlyAmount into (or, for pay-down, out of) the account every month
// from Start through End.
type Requirement struct {
	Goal          *Goal
	AccountID     int
	MonthlyAmount float64
	Months        int
	Start         date.Date
	End           date.Date
}

// sortGoals orders goals by ascending priority, ties broken by id, without
// mutating the input.
func sortGoals(goals []Goal) []Goal {
	out := slices.Clone(goals)
	slices.SortFunc(out, func(a, b Goal) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		return a.ID - b.ID
	})
	return out
}

// contributionAmount returns the level monthly payment that grows pv to fv
// over the given number of months at the given annual rate, compounding
// monthly. A zero rate degenerates to straight division.
func contributionAmount(pv, fv float64, months int, annualRate float64) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return (fv - pv) / float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return (fv - pv*growth) * r / (growth - 1)
}

// futureValue returns the balance after contributing monthly for the given
// number of months at the given annual rate, starting from pv.
func futureValue(pv, monthly float64, months int, annualRate float64) float64 {
	r := annualRate / 12
	growth := math.Pow(1+r, float64(months))
	if r == 0 {
		return pv + monthly*float64(months)
	}
	return pv*growth + monthly*(growth-1)/r
}

// buildRequirements reduces each goal to a monthly contribution
// requirement inside the scenario window. Goals that cannot be reduced
// (unknown account, missing amount, empty or out-of-window horizon) are
// reported as issues and skipped. Maintain-floor goals produce no
// requirement; they surface through mergeFloors instead.
func buildRequirements(s *Scenario, goals []Goal, window date.Range) ([]Requirement, []Issue) {
	var reqs []Requirement
	var issues []Issue
	for i := range goals {
		g := &goals[i]
		if g.Type == GoalMaintain {
			continue
		}
		acc := s.Account(g.AccountID)
		if acc == nil {
			issues = append(issues, Issue{GoalID: g.ID, Message: fmt.Sprintf("account %d not found in scenario", g.AccountID)})
			continue
		}
		start := g.Start
		if start.IsZero() {
			start = window.From
		}
		end := g.End
		if end.IsZero() {
			end = window.To
		}
		if end.After(window.To) {
			issues = append(issues, Issue{GoalID: g.ID, Message: fmt.Sprintf("target date %s is beyond the scenario window ending %s", end, window.To)})
			continue
		}
		months := date.MonthsBetween(start, end)
		if months <= 0 {
			issues = append(issues, Issue{GoalID: g.ID, Message: fmt.Sprintf("target date %s leaves no whole month after %s", end, start)})
			continue
		}

		var monthly float64
		switch g.Type {
		case GoalReachBalance:
			if g.TargetAmount == nil {
				issues = append(issues, Issue{GoalID: g.ID, Message: "reach-balance goal has no target amount"})
				continue
			}
			monthly = contributionAmount(acc.StartingBalance, *g.TargetAmount, months, acc.AnnualRate())
		case GoalIncreaseBy:
			if g.DeltaAmount == nil {
				issues = append(issues, Issue{GoalID: g.ID, Message: "increase goal has no delta amount"})
				continue
			}
			monthly = contributionAmount(acc.StartingBalance, acc.StartingBalance+*g.DeltaAmount, months, acc.AnnualRate())
		case GoalPayDown:
			if g.TargetAmount == nil {
				issues = append(issues, Issue{GoalID: g.ID, Message: "pay-down goal has no target amount"})
				continue
			}
			monthly = (acc.StartingBalance - *g.TargetAmount) / float64(months)
		default:
			issues = append(issues, Issue{GoalID: g.ID, Message: fmt.Sprintf("unknown goal type %q", g.Type)})
			continue
		}
		if monthly < 0 {
			monthly = 0
		}
		reqs = append(reqs, Requirement{
			Goal:          g,
			AccountID:     g.AccountID,
			MonthlyAmount: monthly,
			Months:        months,
			Start:         start,
			End:           end,
		})
	}
	return reqs, issues
}

// mergeFloors combines maintain-floor goals with explicit floor
// constraints, keeping the highest floor per account.
func mergeFloors(goals []Goal, constraints *Constraints) map[int]float64 {
	floors := map[int]float64{}
	if constraints != nil {
		for id, f := range constraints.MinBalanceFloors {
			floors[id] = f
		}
	}
	for _, g := range goals {
		if g.Type != GoalMaintain || g.FloorAmount == nil {
			continue
		}
		if f, ok := floors[g.AccountID]; !ok || *g.FloorAmount > f {
			floors[g.AccountID] = *g.FloorAmount
		}
	}
	return floors
}
