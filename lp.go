package fincast

import "context"

// LPBounds bound the summed coefficient expression of one named
// constraint. A nil side is unbounded.
type LPBounds struct {
	Min *float64
	Max *float64
}

// LPVariable is one decision variable of a linear model: its cost in the
// minimized objective and its coefficient in each named constraint.
type LPVariable struct {
	Cost         float64
	Coefficients map[string]float64
}

// LPModel is a small linear program: minimize the total cost of the
// variables subject to the named linear constraints. Variables are
// implicitly non-negative unless a constraint says otherwise.
type LPModel struct {
	Constraints map[string]LPBounds
	Variables   map[string]LPVariable
}

// LPSolution is the outcome of one LP solve. When the model is infeasible
// Feasible is false and Values is nil; that is not an error.
type LPSolution struct {
	Feasible bool
	Values   map[string]float64
}

// LPSolver solves linear programs. Implementations must return a non-nil
// error only for solver failures, never for plain infeasibility.
type LPSolver interface {
	Solve(ctx context.Context, model *LPModel) (*LPSolution, error)
}

// LPProvider lazily supplies an LPSolver. The goal solver calls it at most
// once per Solver and treats a provider error as a structured solve
// failure rather than a panic.
type LPProvider func(ctx context.Context) (LPSolver, error)
