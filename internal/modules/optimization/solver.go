package optimization

import (
	"context"
	"errors"
	"time"
)

// DefaultSolveTimeout bounds a single solve when the caller passes none.
const DefaultSolveTimeout = 10 * time.Second

// ErrSolverFault means the solver could not run the computation at all.
var ErrSolverFault = errors.New("solver fault")

// SolveStatus is the outcome reported by a Solver.
type SolveStatus string

const (
	SolveOptimal    SolveStatus = "optimal"
	SolveInfeasible SolveStatus = "infeasible"
	SolveUnbounded  SolveStatus = "unbounded"
	SolveTimeout    SolveStatus = "timeout"
)

// RawResult is the solver output before interpretation.
// Values is only populated for SolveOptimal.
type RawResult struct {
	Status    SolveStatus
	Values    map[string]float64
	Objective float64
	Duration  time.Duration
}

// Solver solves a ProblemSpec within timeout.
// Infeasible, unbounded and timed-out problems are reported through
// RawResult.Status; the error return is reserved for faults (wrapping
// ErrSolverFault) and for context cancellation.
type Solver interface {
	Solve(ctx context.Context, problem ProblemSpec, timeout time.Duration) (RawResult, error)
}
