// Package lpsolve backs the forecasting core's linear-program capability
// with gonum's simplex implementation.
package lpsolve

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/fincast/fincast"
)

const simplexTol = 1e-10

type solver struct{}

// New returns an LPSolver backed by gonum's simplex.
func New() fincast.LPSolver { return solver{} }

// Provider adapts New to the lazy-initialization shape the goal solver
// expects.
func Provider(context.Context) (fincast.LPSolver, error) { return New(), nil }

// Solve translates the model into inequality standard form and runs the
// simplex. Infeasibility is reported in the solution, not as an error; a
// simplex panic on degenerate input is recovered into an error.
func (solver) Solve(ctx context.Context, model *fincast.LPModel) (sol *fincast.LPSolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol, err = nil, fmt.Errorf("simplex failed: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(model.Variables))
	for name := range model.Variables {
		names = append(names, name)
	}
	slices.Sort(names)
	n := len(names)
	if n == 0 {
		return &fincast.LPSolution{Feasible: true, Values: map[string]float64{}}, nil
	}

	c := make([]float64, n)
	for i, name := range names {
		c[i] = model.Variables[name].Cost
	}

	// Each bounded constraint becomes one G x <= h row per bound; a min
	// bound is negated into <= form. Variables carry their coefficient per
	// constraint; gonum treats the converted variables as free, so
	// non-negativity rides on the min bounds the model already carries.
	var rows [][]float64
	var h []float64
	addRow := func(constraint string, limit float64, negate bool) {
		row := make([]float64, n)
		for i, name := range names {
			coeff := model.Variables[name].Coefficients[constraint]
			if negate {
				coeff = -coeff
			}
			row[i] = coeff
		}
		rows = append(rows, row)
		h = append(h, limit)
	}
	constraints := make([]string, 0, len(model.Constraints))
	for name := range model.Constraints {
		constraints = append(constraints, name)
	}
	slices.Sort(constraints)
	for _, name := range constraints {
		bounds := model.Constraints[name]
		if bounds.Min != nil {
			addRow(name, -*bounds.Min, true)
		}
		if bounds.Max != nil {
			addRow(name, *bounds.Max, false)
		}
	}

	if len(rows) == 0 {
		// Nothing binds the variables; minimizing cost pins them at zero.
		values := make(map[string]float64, n)
		for _, name := range names {
			values[name] = 0
		}
		return &fincast.LPSolution{Feasible: true, Values: values}, nil
	}

	g := mat.NewDense(len(rows), n, nil)
	for i, row := range rows {
		g.SetRow(i, row)
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, nil, nil)
	_, x, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return &fincast.LPSolution{Feasible: false}, nil
		}
		return nil, fmt.Errorf("simplex failed: %w", err)
	}

	// Convert splits each free variable into a positive and a negative
	// part; recombine them.
	values := make(map[string]float64, n)
	for i, name := range names {
		values[name] = x[i] - x[n+i]
	}
	return &fincast.LPSolution{Feasible: true, Values: values}, nil
}
