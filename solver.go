package fincast

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fincast/fincast/date"
)

const (
	// maxRefineIterations bounds the projection-validate-resolve loop.
	maxRefineIterations = 5
	// floorScaleIterations bounds the bisection that scales contributions
	// down to respect min-balance floors.
	floorScaleIterations = 10
	// goalTolerance absorbs float noise when comparing projected balances
	// against goal targets.
	goalTolerance = 1e-6
	// floorTolerance is the slack allowed when checking minimum observed
	// balances against min-balance floors.
	floorTolerance = 0.01
)

// Solution is the outcome of a goal solve. It is always a plain value:
// solver failures surface as Issues on an infeasible solution, never as a
// panic or an error return.
type Solution struct {
	Suggested   []Transaction `json:"suggestedTransactions"`
	Explanation []string      `json:"explanation"`
	Warnings    []string      `json:"warnings"`
	Issues      []Issue       `json:"issues"`
	Feasible    bool          `json:"isFeasible"`
}

// Solver turns goals and constraints into suggested monthly transactions.
// The LP capability is injected through an LPProvider and initialized
// lazily on first use.
type Solver struct {
	provider LPProvider
	log      zerolog.Logger

	once  sync.Once
	lp    LPSolver
	lpErr error
}

// SolverOption customizes a Solver.
type SolverOption func(*Solver)

// WithLogger routes the solver's diagnostics to the given logger.
func WithLogger(log zerolog.Logger) SolverOption {
	return func(s *Solver) { s.log = log }
}

// NewSolver returns a Solver backed by the given LP provider.
func NewSolver(provider LPProvider, opts ...SolverOption) *Solver {
	s := &Solver{provider: provider, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Solver) solver(ctx context.Context) (LPSolver, error) {
	s.once.Do(func() {
		if s.provider == nil {
			s.lpErr = fmt.Errorf("no LP provider configured")
			return
		}
		s.lp, s.lpErr = s.provider(ctx)
	})
	return s.lp, s.lpErr
}

func failureSolution(title string, detail string, hints ...string) *Solution {
	sol := &Solution{
		Explanation: []string{title, detail},
		Issues:      []Issue{{Message: title}, {Message: detail}},
		Warnings:    []string{},
	}
	if len(hints) > 0 {
		sol.Explanation = append(sol.Explanation, "", "What to check next:")
		for _, h := range hints {
			sol.Explanation = append(sol.Explanation, "- "+h)
		}
	}
	return sol
}

// Solve works the goals against the scenario and returns suggested
// transactions that satisfy as many priority tiers as the constraints
// allow. Tiers are all-or-nothing: a tier is included only when every goal
// in it and below fits, and the first infeasible tier stops the climb. The
// LP answer is then validated against a real projection and refined.
func (s *Solver) Solve(ctx context.Context, scenario *Scenario, goals []Goal, constraints *Constraints) (sol *Solution) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("goal solve panicked")
			sol = failureSolution("Solve failed in goal solver", fmt.Sprint(r),
				"Check the scenario accounts and transactions for inconsistent data")
		}
	}()

	if constraints == nil {
		constraints = &Constraints{}
	}
	window := scenario.Window()
	sorted := sortGoals(goals)

	warnings := []string{}
	var issues []Issue

	fundingID := constraints.FundingAccountID
	if fundingID == 0 || scenario.Account(fundingID) == nil {
		issues = append(issues, Issue{Message: "Funding account is required to solve. Select a funding account under Constraints."})
	}

	floors := mergeFloors(sorted, constraints)

	// When the funding account carries a floor, derive an outflow cap from
	// the baseline projection: the cap is the smallest headroom the funding
	// balance ever has above its floor, before any suggested transactions.
	var effectiveMaxOutflow *float64
	if constraints.MaxOutflowPerMonth != nil {
		v := *constraints.MaxOutflowPerMonth
		effectiveMaxOutflow = &v
	}
	if fundingID != 0 && scenario.Account(fundingID) != nil {
		if floor, ok := floors[fundingID]; ok {
			baseline, err := GenerateProjections(scenario, ProjectionOptions{Window: window})
			if err != nil {
				return failureSolution("Solve failed in goal solver", err.Error())
			}
			starting := scenario.Account(fundingID).StartingBalance
			minBaseline := minBalance(recordsFor(baseline, fundingID), starting)
			derived := math.Max(0, minBaseline-floor)
			if effectiveMaxOutflow == nil || derived < *effectiveMaxOutflow {
				effectiveMaxOutflow = &derived
			}
			if derived <= 0 {
				issues = append(issues, Issue{Message: "Funding account floor leaves no room for additional outflow. Reduce the floor or extend the goal dates."})
			}
		}
	}

	reqs, reqIssues := buildRequirements(scenario, sorted, window)
	issues = append(issues, reqIssues...)

	if len(issues) > 0 {
		expl := []string{"Issues:"}
		for _, i := range issues {
			expl = append(expl, "- "+i.String())
		}
		return &Solution{Explanation: expl, Warnings: warnings, Issues: issues}
	}

	lp, err := s.solver(ctx)
	if err != nil {
		return failureSolution("Solve failed in goal solver", fmt.Sprintf("LP solver could not be initialized: %v", err))
	}

	// Climb the priority tiers: each attempt covers every goal at or below
	// the tier, so a tier only counts when the whole prefix fits.
	var priorities []int
	seen := map[int]bool{}
	for _, r := range reqs {
		if !seen[r.Goal.Priority] {
			seen[r.Goal.Priority] = true
			priorities = append(priorities, r.Goal.Priority)
		}
	}

	var selected []Requirement
	var best *LPSolution
	bestPriority := 0
	for _, p := range priorities {
		var tier []Requirement
		for _, r := range reqs {
			if r.Goal.Priority <= p {
				tier = append(tier, r)
			}
		}
		res, err := lp.Solve(ctx, buildLPModel(tier, constraints, effectiveMaxOutflow))
		if err != nil {
			return failureSolution("Solve failed in goal solver", fmt.Sprintf("LP solve error: %v", err))
		}
		if !res.Feasible {
			s.log.Debug().Int("priority", p).Msg("tier infeasible, stopping climb")
			break
		}
		selected, best, bestPriority = tier, res, p
	}

	if best == nil {
		msg := "No feasible solution found for Priority 1 goals with the given constraints."
		return &Solution{
			Explanation: []string{
				"Issues:",
				"- " + msg,
				"",
				"What to check next:",
				"- Increase Max Outflow Per Month (or remove it)",
				"- Unlock accounts that need to move",
				"- Extend goal dates to reduce required monthly movement",
			},
			Warnings: warnings,
			Issues:   []Issue{{Message: msg}},
		}
	}

	amounts := map[int]float64{}
	for _, r := range selected {
		amounts[r.Goal.ID] = math.Max(0, best.Values[goalVar(r.Goal.ID)])
	}

	// Validate the LP answer against a real projection and refine: bump
	// under-shooting requirements, or scale everything down when a floor
	// breaks.
	var failures []goalFailure
	for iter := 0; iter < maxRefineIterations; iter++ {
		trial := withSuggestions(scenario, buildSuggestedTransactions(scenario, selected, amounts, constraints))
		records, err := GenerateProjections(trial, ProjectionOptions{Window: window})
		if err != nil {
			return failureSolution("Solve failed in goal solver", err.Error())
		}
		failures = evaluateGoals(trial, sorted, floors, records)
		if len(failures) == 0 {
			break
		}

		if hasFloorFailure(failures) {
			scale := s.findFloorSafeScale(scenario, selected, amounts, constraints, floors, window)
			for id := range amounts {
				amounts[id] *= scale
			}
			warnings = append(warnings, "Min-balance floors required scaling down suggested contributions.")
			continue
		}

		bumped := make([]Requirement, len(selected))
		copy(bumped, selected)
		for _, f := range failures {
			for i := range bumped {
				if bumped[i].Goal.ID != f.goalID {
					continue
				}
				months := max(1, bumped[i].Months)
				need := amounts[f.goalID] + math.Max(0, f.shortfall)/float64(months)
				bumped[i].MonthlyAmount = math.Max(bumped[i].MonthlyAmount, need)
			}
		}
		res, err := lp.Solve(ctx, buildLPModel(bumped, constraints, effectiveMaxOutflow))
		if err != nil {
			return failureSolution("Solve failed in goal solver", fmt.Sprintf("LP solve error: %v", err))
		}
		if !res.Feasible {
			warnings = append(warnings, "Solver became infeasible after projection-based refinement.")
			break
		}
		for _, r := range bumped {
			amounts[r.Goal.ID] = math.Max(0, res.Values[goalVar(r.Goal.ID)])
		}
	}

	suggested := buildSuggestedTransactions(scenario, selected, amounts, constraints)

	expl := []string{fmt.Sprintf("Solved priorities up to: %d", bestPriority)}
	if effectiveMaxOutflow != nil {
		expl = append(expl, fmt.Sprintf("Effective max outflow per month: %.2f", *effectiveMaxOutflow))
	}
	if len(constraints.MaxMovement) > 0 {
		expl = append(expl, "Applied per-account movement caps.")
	}
	if len(floors) > 0 {
		expl = append(expl, "Validated min-balance floors against projections.")
	}
	if len(failures) > 0 {
		expl = append(expl, "Validation issues:")
		for i, f := range failures {
			if i == 10 {
				break
			}
			expl = append(expl, fmt.Sprintf("- %s shortfall: %.2f", f.kind, f.shortfall))
		}
		expl = append(expl, "", "What to check next:", "- Reduce constraints, extend dates, or increase max outflow")
	} else {
		expl = append(expl, "All configured goals and constraints validated against projections.")
	}

	return &Solution{
		Suggested:   suggested,
		Explanation: expl,
		Warnings:    warnings,
		Issues:      []Issue{},
		Feasible:    len(suggested) > 0 && len(failures) == 0,
	}
}

func goalVar(goalID int) string { return fmt.Sprintf("g_%d", goalID) }

// buildLPModel encodes one tier attempt: one non-negative variable per
// requirement, floored at the required monthly amount, capped by the
// per-account movement limit when one applies (zero when the account is
// locked), and summed under the effective monthly outflow cap.
func buildLPModel(reqs []Requirement, constraints *Constraints, maxOutflow *float64) *LPModel {
	model := &LPModel{
		Constraints: map[string]LPBounds{},
		Variables:   map[string]LPVariable{},
	}
	if maxOutflow != nil {
		total := math.Max(0, *maxOutflow)
		model.Constraints["totalOutflow"] = LPBounds{Max: &total}
	}
	for _, r := range reqs {
		name := goalVar(r.Goal.ID)
		minimum := math.Max(0, r.MonthlyAmount)
		model.Constraints[name+"_min"] = LPBounds{Min: &minimum}
		v := LPVariable{Cost: 1, Coefficients: map[string]float64{
			name + "_min": 1,
		}}
		// An uncapped, unlocked account gets no max row at all; a huge
		// finite bound degrades the simplex numerically.
		var maximum float64
		capped := false
		if constraints.Locked(r.AccountID) {
			maximum, capped = 0, true
		} else if cap, ok := constraints.MaxMovement[r.AccountID]; ok {
			maximum, capped = math.Max(0, cap), true
		}
		if capped {
			model.Constraints[name+"_max"] = LPBounds{Max: &maximum}
			v.Coefficients[name+"_max"] = 1
		}
		if maxOutflow != nil {
			v.Coefficients["totalOutflow"] = 1
		}
		model.Variables[name] = v
	}
	return model
}

// buildSuggestedTransactions materializes the solved monthly amounts as
// planned recurring transactions. Reach and increase goals become one
// monthly transfer from the funding account into the goal account. Pay-down
// goals become two separate outflows, one draining the funding account and
// one reducing the liability, linked by a shared tag.
func buildSuggestedTransactions(scenario *Scenario, reqs []Requirement, amounts map[int]float64, constraints *Constraints) []Transaction {
	var out []Transaction
	fundingID := constraints.FundingAccountID
	for _, r := range reqs {
		amt := amounts[r.Goal.ID]
		if amt <= 0 || math.IsNaN(amt) || math.IsInf(amt, 0) {
			continue
		}
		acc := scenario.Account(r.AccountID)
		name := fmt.Sprintf("account %d", r.AccountID)
		if acc != nil {
			name = acc.Name
		}
		recurrence := &RecurrenceRule{
			Kind:       MonthlyOnDay,
			Start:      r.Start,
			End:        r.End,
			Interval:   1,
			DayOfMonth: r.Start.Day(),
		}
		tags := []string{"adv-goal-generated", "adv-goal-" + r.Goal.Type, fmt.Sprintf("adv-goal-id:%d", r.Goal.ID)}

		if r.Goal.Type == GoalPayDown {
			link := "adv-goal-link:" + uuid.NewString()
			if fundingID != 0 {
				out = append(out, Transaction{
					ID:          uuid.NewString(),
					Primary:     fundingID,
					Type:        Outflow,
					Amount:      math.Abs(amt),
					Effective:   r.Start,
					Description: fmt.Sprintf("Goal: funding for payoff of %s", name),
					Recurrence:  recurrence,
					Status:      Status{Name: StatusPlanned},
					Tags:        append([]string{link}, tags...),
				})
			}
			out = append(out, Transaction{
				ID:          uuid.NewString(),
				Primary:     r.AccountID,
				Type:        Outflow,
				Amount:      math.Abs(amt),
				Effective:   r.Start,
				Description: fmt.Sprintf("Goal: pay down %s", name),
				Recurrence:  recurrence,
				Status:      Status{Name: StatusPlanned},
				Tags:        append([]string{link}, tags...),
			})
			continue
		}

		desc := fmt.Sprintf("Goal: reach balance for %s", name)
		if r.Goal.Type == GoalIncreaseBy {
			desc = fmt.Sprintf("Goal: increase %s", name)
		}
		out = append(out, Transaction{
			ID:          uuid.NewString(),
			Primary:     r.AccountID,
			Secondary:   fundingID,
			Type:        Inflow,
			Amount:      math.Abs(amt),
			Effective:   r.Start,
			Description: desc,
			Recurrence:  recurrence,
			Status:      Status{Name: StatusPlanned},
			Tags:        tags,
		})
	}
	return out
}

// withSuggestions returns a clone of the scenario carrying the suggested
// transactions in addition to its own.
func withSuggestions(scenario *Scenario, suggested []Transaction) *Scenario {
	trial := scenario.Clone()
	trial.Transactions = append(trial.Transactions, suggested...)
	return trial
}

type goalFailure struct {
	goalID    int
	kind      string
	shortfall float64
	floor     bool
}

func hasFloorFailure(failures []goalFailure) bool {
	for _, f := range failures {
		if f.floor {
			return true
		}
	}
	return false
}

func recordsFor(records []ProjectionRecord, accountID int) []ProjectionRecord {
	var out []ProjectionRecord
	for _, r := range records {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	return out
}

// balanceAt returns the last projected balance at or before d, or fallback
// when no record precedes it.
func balanceAt(records []ProjectionRecord, d date.Date, fallback float64) float64 {
	bal := fallback
	for _, r := range records {
		if r.Date.After(d) {
			break
		}
		bal = r.Balance
	}
	return bal
}

func minBalance(records []ProjectionRecord, starting float64) float64 {
	m := starting
	for _, r := range records {
		if r.Balance < m {
			m = r.Balance
		}
	}
	return m
}

// evaluateGoals checks every goal, and every merged floor, against the
// trial projection. It returns one failure per missed target with the
// shortfall to close.
func evaluateGoals(trial *Scenario, goals []Goal, floors map[int]float64, records []ProjectionRecord) []goalFailure {
	var failures []goalFailure
	window := trial.Window()
	for _, g := range goals {
		acc := trial.Account(g.AccountID)
		if acc == nil {
			continue
		}
		recs := recordsFor(records, g.AccountID)
		start := g.Start
		if start.IsZero() {
			start = window.From
		}
		end := g.End
		if end.IsZero() {
			end = window.To
		}
		endBal := balanceAt(recs, end, acc.StartingBalance)

		switch g.Type {
		case GoalReachBalance:
			if g.TargetAmount == nil {
				continue
			}
			if endBal+goalTolerance < *g.TargetAmount {
				failures = append(failures, goalFailure{goalID: g.ID, kind: g.Type, shortfall: *g.TargetAmount - endBal})
			}
		case GoalPayDown:
			target := 0.0
			if g.TargetAmount != nil {
				target = *g.TargetAmount
			}
			if endBal-goalTolerance > target {
				failures = append(failures, goalFailure{goalID: g.ID, kind: g.Type, shortfall: endBal - target})
			}
		case GoalIncreaseBy:
			if g.DeltaAmount == nil {
				continue
			}
			startBal := balanceAt(recs, start, acc.StartingBalance)
			if endBal-startBal+goalTolerance < *g.DeltaAmount {
				failures = append(failures, goalFailure{goalID: g.ID, kind: g.Type, shortfall: *g.DeltaAmount - (endBal - startBal)})
			}
		case GoalMaintain:
			if g.FloorAmount == nil {
				continue
			}
			minBal := minBalance(recs, acc.StartingBalance)
			if minBal+floorTolerance < *g.FloorAmount {
				failures = append(failures, goalFailure{goalID: g.ID, kind: g.Type, shortfall: *g.FloorAmount - minBal, floor: true})
			}
		}
	}
	for accountID, floor := range floors {
		acc := trial.Account(accountID)
		if acc == nil {
			continue
		}
		minBal := minBalance(recordsFor(records, accountID), acc.StartingBalance)
		if minBal+floorTolerance < floor {
			failures = append(failures, goalFailure{kind: "floor", shortfall: floor - minBal, floor: true})
		}
	}
	return failures
}

// evaluateFloors is evaluateGoals restricted to the merged floors, used by
// the scale-down bisection.
func evaluateFloors(trial *Scenario, floors map[int]float64, records []ProjectionRecord) bool {
	for accountID, floor := range floors {
		acc := trial.Account(accountID)
		if acc == nil {
			continue
		}
		if minBalance(recordsFor(records, accountID), acc.StartingBalance)+floorTolerance < floor {
			return false
		}
	}
	return true
}

// findFloorSafeScale bisects a uniform scale in [0, 1] for the suggested
// amounts until every merged floor holds, and returns the largest scale
// found. Zero means no contribution level passed.
func (s *Solver) findFloorSafeScale(scenario *Scenario, reqs []Requirement, amounts map[int]float64, constraints *Constraints, floors map[int]float64, window date.Range) float64 {
	lo, hi, best := 0.0, 1.0, 0.0
	for i := 0; i < floorScaleIterations; i++ {
		mid := (lo + hi) / 2
		scaled := map[int]float64{}
		for id, v := range amounts {
			scaled[id] = v * mid
		}
		trial := withSuggestions(scenario, buildSuggestedTransactions(scenario, reqs, scaled, constraints))
		records, err := GenerateProjections(trial, ProjectionOptions{Window: window})
		if err != nil {
			s.log.Warn().Err(err).Msg("projection failed during floor bisection")
			return best
		}
		if evaluateFloors(trial, floors, records) {
			best, lo = mid, mid
		} else {
			hi = mid
		}
	}
	return best
}
