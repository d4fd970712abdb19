package optimization

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	simplexTolerance = 1e-10
	boundEpsilon     = 1e-9
)

// SimplexSolver solves a ProblemSpec with gonum's simplex implementation.
//
// The problem is rewritten in standard form (minimize cᵀy, Ay = b, y ≥ 0):
// variables are shifted by their lower bound, finite upper bounds become rows
// with their own slack column and inequality rows get a slack or surplus
// column. Variables that are fixed or appear in no row are resolved directly.
type SimplexSolver struct {
	tol float64
	run func(ProblemSpec) (RawResult, error)
	log zerolog.Logger
}

// NewSimplexSolver creates a new simplex solver.
func NewSimplexSolver(log zerolog.Logger) *SimplexSolver {
	s := &SimplexSolver{
		tol: simplexTolerance,
		log: log.With().Str("component", "simplex_solver").Logger(),
	}
	s.run = s.solve
	return s
}

type solveOutcome struct {
	result RawResult
	err    error
}

// Solve runs the simplex method in its own goroutine and waits at most timeout.
// A solve that outlives the timeout is abandoned and reported as SolveTimeout.
func (s *SimplexSolver) Solve(ctx context.Context, problem ProblemSpec, timeout time.Duration) (RawResult, error) {
	if timeout <= 0 {
		timeout = DefaultSolveTimeout
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan solveOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- solveOutcome{err: fmt.Errorf("%w: simplex panicked: %v", ErrSolverFault, r)}
			}
		}()
		res, err := s.run(problem)
		done <- solveOutcome{result: res, err: err}
	}()

	select {
	case out := <-done:
		out.result.Duration = time.Since(start)
		return out.result, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.log.Warn().
				Str("problem", problem.Name).
				Dur("timeout", timeout).
				Msg("Solver time limit reached")
			return RawResult{Status: SolveTimeout, Duration: time.Since(start)}, nil
		}
		return RawResult{}, fmt.Errorf("solve cancelled: %w", ctx.Err())
	}
}

func (s *SimplexSolver) solve(problem ProblemSpec) (RawResult, error) {
	sf, status, err := toStandardForm(problem)
	if err != nil {
		return RawResult{}, err
	}
	if status != "" {
		return RawResult{Status: status}, nil
	}

	var y []float64
	if sf.a != nil {
		rows, cols := sf.a.Dims()
		s.log.Debug().
			Str("problem", problem.Name).
			Int("rows", rows).
			Int("cols", cols).
			Msg("Running simplex")

		_, y, err = lp.Simplex(sf.c, sf.a, sf.b, s.tol, nil)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return RawResult{Status: SolveInfeasible}, nil
		case errors.Is(err, lp.ErrUnbounded):
			return RawResult{Status: SolveUnbounded}, nil
		case err != nil:
			return RawResult{}, fmt.Errorf("%w: %v", ErrSolverFault, err)
		}
	}

	values := make(map[string]float64, len(problem.Variables))
	x := make([]float64, len(problem.Variables))
	for j, v := range problem.Variables {
		val := sf.base[j]
		if col := sf.column[j]; col >= 0 {
			val += y[col]
		}
		x[j] = clamp(val, v.Lower, v.Upper)
		values[v.Name] = x[j]
	}

	objective := 0.0
	for j, coef := range sf.objective {
		objective += coef * x[j]
	}

	return RawResult{Status: SolveOptimal, Values: values, Objective: objective}, nil
}

// standardForm is a ProblemSpec rewritten for lp.Simplex.
type standardForm struct {
	c []float64
	a *mat.Dense // nil when every variable was resolved without a solve
	b []float64

	column    []int     // simplex column of each variable, -1 when resolved directly
	base      []float64 // value each variable is shifted by
	objective []float64 // maximization coefficients per variable
}

type standardRow struct {
	coefs []float64
	slack float64
	rhs   float64
}

// toStandardForm returns a non-empty status when the outcome is already
// known without running the simplex method.
func toStandardForm(p ProblemSpec) (*standardForm, SolveStatus, error) {
	n := len(p.Variables)
	index := p.VariableIndex()
	if len(index) != n {
		return nil, "", fmt.Errorf("%w: duplicate variable names in %s", ErrSolverFault, p.Name)
	}

	obj := make([]float64, n)
	for _, t := range p.Objective {
		j, ok := index[t.Variable]
		if !ok {
			return nil, "", fmt.Errorf("%w: objective references unknown variable %q", ErrSolverFault, t.Variable)
		}
		obj[j] += t.Coef
	}

	used := make([]bool, n)
	coefs := make([][]float64, len(p.Constraints))
	for i, con := range p.Constraints {
		row := make([]float64, n)
		for _, t := range con.Terms {
			j, ok := index[t.Variable]
			if !ok {
				return nil, "", fmt.Errorf("%w: constraint %s references unknown variable %q", ErrSolverFault, con.Name, t.Variable)
			}
			row[j] += t.Coef
		}
		for j, a := range row {
			if a != 0 {
				used[j] = true
			}
		}
		coefs[i] = row
	}

	sf := &standardForm{
		column:    make([]int, n),
		base:      make([]float64, n),
		objective: obj,
	}
	var active []int
	for j, v := range p.Variables {
		if math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || math.IsInf(v.Lower, 0) {
			return nil, "", fmt.Errorf("%w: variable %q has invalid bounds", ErrSolverFault, v.Name)
		}
		if v.Upper < v.Lower-boundEpsilon {
			return nil, SolveInfeasible, nil
		}
		sf.column[j] = -1
		sf.base[j] = v.Lower

		switch {
		case v.Upper-v.Lower <= boundEpsilon:
			// Fixed at its lower bound.
		case !used[j]:
			// Free of every row: the objective alone decides.
			if obj[j] > 0 {
				if !v.Bounded() {
					return nil, SolveUnbounded, nil
				}
				sf.base[j] = v.Upper
			}
		default:
			sf.column[j] = len(active)
			active = append(active, j)
		}
	}

	var rows []standardRow
	for i, con := range p.Constraints {
		rhs := con.RHS
		scale := math.Abs(con.RHS)
		row := make([]float64, len(active))
		nonzero := false
		for j, a := range coefs[i] {
			if a == 0 {
				continue
			}
			shift := a * sf.base[j]
			rhs -= shift
			scale = math.Max(scale, math.Abs(shift))
			if col := sf.column[j]; col >= 0 {
				row[col] = a
				nonzero = true
			}
		}
		tol := boundEpsilon * math.Max(1, scale)
		if !nonzero {
			if !emptyRowHolds(con.Sense, rhs, tol) {
				return nil, SolveInfeasible, nil
			}
			continue
		}
		rhs = settleRHS(con.Sense, rhs, tol)

		var slack float64
		switch con.Sense {
		case SenseLE:
			slack = 1
		case SenseGE:
			slack = -1
		}
		rows = append(rows, standardRow{coefs: row, slack: slack, rhs: rhs})
	}

	for col, j := range active {
		v := p.Variables[j]
		if !v.Bounded() {
			continue
		}
		row := make([]float64, len(active))
		row[col] = 1
		span := settleRHS(SenseEQ, v.Upper-v.Lower, boundEpsilon*math.Max(1, math.Abs(v.Upper)))
		rows = append(rows, standardRow{coefs: row, slack: 1, rhs: span})
	}

	if len(rows) == 0 {
		return sf, "", nil
	}

	slacks := 0
	for _, r := range rows {
		if r.slack != 0 {
			slacks++
		}
	}
	m, cols := len(rows), len(active)+slacks
	if cols < m {
		return nil, "", fmt.Errorf("%w: %s has more rows (%d) than columns (%d)", ErrSolverFault, p.Name, m, cols)
	}

	a := mat.NewDense(m, cols, nil)
	b := make([]float64, m)
	next := len(active)
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for col, v := range r.coefs {
			if v != 0 {
				a.Set(i, col, sign*v)
			}
		}
		if r.slack != 0 {
			a.Set(i, next, sign*r.slack)
			next++
		}
		b[i] = sign * r.rhs
	}

	c := make([]float64, cols)
	for col, j := range active {
		c[col] = -obj[j]
	}

	sf.a, sf.b, sf.c = a, b, c
	return sf, "", nil
}

// emptyRowHolds checks a row whose variables were all resolved: 0 <sense> rhs.
func emptyRowHolds(sense Sense, rhs, tol float64) bool {
	switch sense {
	case SenseLE:
		return rhs >= -tol
	case SenseGE:
		return rhs <= tol
	default:
		return math.Abs(rhs) <= tol
	}
}

// settleRHS removes the rounding residue left by the lower-bound shift.
// A right-hand side within tol of zero becomes exactly zero so the sign
// normalisation cannot flip the row on noise. Inequality rows are widened by
// tol so a bound that is met exactly in decimal terms stays feasible.
func settleRHS(sense Sense, rhs, tol float64) float64 {
	if math.Abs(rhs) <= tol {
		return 0
	}
	switch sense {
	case SenseLE:
		return rhs + tol
	case SenseGE:
		return rhs - tol
	default:
		return rhs
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
