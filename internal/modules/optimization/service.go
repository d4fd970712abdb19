package optimization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service runs the full optimization: validate, formulate, solve, interpret.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	solver      Solver
	interpreter *Interpreter
	metrics     *Metrics // Optional
	timeout     time.Duration
	log         zerolog.Logger
}

// NewService creates a new optimization service. A non-positive timeout
// falls back to DefaultSolveTimeout.
func NewService(solver Solver, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultSolveTimeout
	}
	return &Service{
		solver:      solver,
		interpreter: NewInterpreter(log),
		timeout:     timeout,
		log:         log.With().Str("component", "optimization_service").Logger(),
	}
}

// SetMetrics sets the Prometheus collectors used to record each run.
func (s *Service) SetMetrics(m *Metrics) {
	s.metrics = m
}

// Timeout returns the time budget given to each solve.
func (s *Service) Timeout() time.Duration {
	return s.timeout
}

// Optimize makes a single solve attempt for m.
//
// Validation failures return an error matching ErrInvalidModel. Infeasible
// and timed-out problems come back as an infeasible Result. A solver fault
// becomes a status=error Result with a generic message and a nil error.
// Context cancellation is returned as an error.
func (s *Service) Optimize(ctx context.Context, m FinancialModel) (*Result, error) {
	if m.Mode == "" {
		m.Mode = ModeMaxSavings
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	problem := Formulate(m)
	s.log.Debug().
		Str("mode", m.Mode.String()).
		Int("variables", len(problem.Variables)).
		Int("constraints", len(problem.Constraints)).
		Msg("Formulated budget problem")

	raw, err := s.solver.Solve(ctx, problem, s.timeout)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("optimization aborted: %w", err)
		}
		s.log.Error().
			Err(err).
			Str("mode", m.Mode.String()).
			Msg("Optimization failed")
		s.metrics.Observe(m.Mode, StatusError, raw.Duration)
		return errorResult(m.Mode), nil
	}

	result := s.interpreter.Interpret(m, raw)
	s.metrics.Observe(m.Mode, result.Status, raw.Duration)

	s.log.Info().
		Str("mode", m.Mode.String()).
		Str("status", string(result.Status)).
		Str("solver_status", string(raw.Status)).
		Float64("monthly_savings", result.MonthlySavings).
		Dur("duration", raw.Duration).
		Msg("Budget optimization finished")

	return result, nil
}
