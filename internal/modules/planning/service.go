// Package planning ties stored budget profiles to the optimizer: persisted
// runs, what-if scenarios, recommendations and result history.
package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/budgetopt/internal/modules/budget"
	"github.com/aristath/budgetopt/internal/modules/history"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/rs/zerolog"
)

// Recommendation texts used when there is no optimal result to analyse.
const (
	NoResultsMessage  = "Run an optimization first to get personalized recommendations!"
	SetGoalsMessage   = "Make sure to set your financial goals for better insights."
	InfeasibleMessage = "Your current budget is infeasible. Consider adjusting your income, expenses, or goals."
)

// Optimizer runs a single optimization.
type Optimizer interface {
	Optimize(ctx context.Context, m optimization.FinancialModel) (*optimization.Result, error)
}

// ProfileLoader loads budget profiles.
type ProfileLoader interface {
	GetByID(ctx context.Context, id int64) (*budget.Profile, error)
}

// ResultStore persists optimization results.
type ResultStore interface {
	Save(ctx context.Context, profileID int64, res *optimization.Result) (history.StoredResult, error)
	Latest(ctx context.Context, profileID int64) (history.StoredResult, error)
	List(ctx context.Context, profileID int64, limit int) ([]history.StoredResult, error)
}

// Run is the outcome of an optimization for a stored profile.
type Run struct {
	*optimization.Result
	ResultID string       `json:"result_id,omitempty"`
	Goal     *budget.Goal `json:"goal,omitempty"`
}

// Service runs optimizations on behalf of profiles.
type Service struct {
	profiles  ProfileLoader
	results   ResultStore
	optimizer Optimizer
	cache     history.Cache
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a new planning service without a result cache.
func NewService(profiles ProfileLoader, results ResultStore, optimizer Optimizer, log zerolog.Logger) *Service {
	return &Service{
		profiles:  profiles,
		results:   results,
		optimizer: optimizer,
		cache:     history.NopCache{},
		now:       time.Now,
		log:       log.With().Str("module", "planning").Logger(),
	}
}

// SetCache sets the latest-result cache.
func (s *Service) SetCache(c history.Cache) {
	if c == nil {
		c = history.NopCache{}
	}
	s.cache = c
}

// RunForProfile optimizes a stored profile against goalID (or its top goal)
// and persists the outcome. Optimal and infeasible results are stored;
// status=error results are returned but not kept.
func (s *Service) RunForProfile(ctx context.Context, profileID int64, mode optimization.Mode, goalID *int64) (*Run, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	model, err := budget.BuildModel(profile, mode, goalID, s.now())
	if err != nil {
		return nil, err
	}
	sel, _ := budget.SelectGoal(profile, goalID, s.now())

	res, err := s.optimizer.Optimize(ctx, model)
	if err != nil {
		return nil, err
	}

	run := &Run{Result: res, Goal: sel.Goal}
	if res.Status == optimization.StatusError {
		return run, nil
	}

	stored, err := s.results.Save(ctx, profileID, res)
	if err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}
	s.cache.SetLatest(ctx, stored)
	run.ResultID = stored.ID

	s.log.Info().
		Int64("profile_id", profileID).
		Str("result_id", stored.ID).
		Str("status", string(res.Status)).
		Msg("Profile optimization stored")
	return run, nil
}

// RunScenario runs a what-if optimization. Nothing is persisted.
func (s *Service) RunScenario(ctx context.Context, model optimization.FinancialModel) (*optimization.Result, error) {
	return s.optimizer.Optimize(ctx, model)
}

// Recommendations builds advice from the newest stored result of a profile,
// checked against the profile's current categories and top goal.
func (s *Service) Recommendations(ctx context.Context, profileID int64) ([]string, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	latest, err := s.latest(ctx, profileID)
	if errors.Is(err, history.ErrNoResults) {
		return []string{NoResultsMessage, SetGoalsMessage}, nil
	}
	if err != nil {
		return nil, err
	}

	res := latest.Result
	if !res.IsOptimal() {
		msg := ""
		if res != nil {
			msg = res.Message
		}
		return []string{InfeasibleMessage, msg}, nil
	}

	var goal float64
	if top := budget.TopGoal(profile); top != nil {
		goal = top.Remaining()
	}
	return optimization.RecommendOrDefault(res.SpendingAllocation, profile.Bounds(), res.MonthlySavings, goal), nil
}

// History lists stored results of a profile, newest first.
func (s *Service) History(ctx context.Context, profileID int64, limit int) ([]history.StoredResult, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.results.List(ctx, profileID, limit)
}

func (s *Service) latest(ctx context.Context, profileID int64) (history.StoredResult, error) {
	if cached, ok := s.cache.GetLatest(ctx, profileID); ok {
		return *cached, nil
	}
	stored, err := s.results.Latest(ctx, profileID)
	if err != nil {
		return history.StoredResult{}, err
	}
	s.cache.SetLatest(ctx, stored)
	return stored, nil
}
