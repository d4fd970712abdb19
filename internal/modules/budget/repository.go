package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/budgetopt/internal/database"
	"github.com/rs/zerolog"
)

// Repository stores profiles and their expenses and goals in budget.db.
// Child rows keep the order they were submitted in.
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new budget repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repository", "budget").Logger(),
	}
}

// Create validates and inserts a profile with all of its children.
func (r *Repository) Create(ctx context.Context, in ProfileInput) (*Profile, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := r.now().Unix()
	var id int64
	err := database.WithTransactionContext(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO budget_profiles (name, monthly_income, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, in.Name, in.MonthlyIncome, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read profile id: %w", err)
		}
		return insertChildren(ctx, tx, id, in)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().Int64("profile_id", id).Str("name", in.Name).Msg("Created budget profile")
	return r.GetByID(ctx, id)
}

// Update merges upd into the stored profile. Any list present in upd
// replaces the stored list; the whole update is one transaction.
func (r *Repository) Update(ctx context.Context, id int64, upd ProfileUpdate) (*Profile, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in := upd.Apply(current.Input())
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err = database.WithTransactionContext(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE budget_profiles SET name = ?, monthly_income = ?, updated_at = ?
			WHERE id = ?
		`, in.Name, in.MonthlyIncome, r.now().Unix(), id)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrProfileNotFound
		}

		for _, table := range []struct {
			name    string
			replace bool
		}{
			{"fixed_expenses", upd.FixedExpenses != nil},
			{"variable_expenses", upd.VariableExpenses != nil},
			{"financial_goals", upd.Goals != nil},
		} {
			if !table.replace {
				continue
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table.name+" WHERE profile_id = ?", id); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table.name, err)
			}
		}

		replaced := ProfileInput{}
		if upd.FixedExpenses != nil {
			replaced.FixedExpenses = in.FixedExpenses
		}
		if upd.VariableExpenses != nil {
			replaced.VariableExpenses = in.VariableExpenses
		}
		if upd.Goals != nil {
			replaced.Goals = in.Goals
		}
		return insertChildren(ctx, tx, id, replaced)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().Int64("profile_id", id).Msg("Updated budget profile")
	return r.GetByID(ctx, id)
}

// GetByID loads a profile with its children.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Profile, error) {
	p := &Profile{ID: id}
	var created, updated int64
	err := r.db.QueryRowContext(ctx, `
		SELECT name, monthly_income, created_at, updated_at
		FROM budget_profiles WHERE id = ?
	`, id).Scan(&p.Name, &p.MonthlyIncome, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %d: %w", id, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.UpdatedAt = time.Unix(updated, 0).UTC()

	if p.FixedExpenses, err = r.fixedExpenses(ctx, id); err != nil {
		return nil, err
	}
	if p.VariableExpenses, err = r.variableExpenses(ctx, id); err != nil {
		return nil, err
	}
	if p.Goals, err = r.goals(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every profile, oldest first.
func (r *Repository) List(ctx context.Context) ([]*Profile, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM budget_profiles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	profiles := make([]*Profile, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Delete removes a profile; expenses, goals and stored results cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budget_profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %d: %w", id, ErrProfileNotFound)
	}
	r.log.Info().Int64("profile_id", id).Msg("Deleted budget profile")
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, profileID int64, in ProfileInput) error {
	for i, fe := range in.FixedExpenses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO fixed_expenses (profile_id, category, amount, position)
			VALUES (?, ?, ?, ?)
		`, profileID, fe.Category, fe.Amount, i); err != nil {
			return fmt.Errorf("failed to insert fixed expense %q: %w", fe.Category, err)
		}
	}

	for i, ve := range in.VariableExpenses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO variable_expenses (profile_id, category, min_amount, max_amount, position)
			VALUES (?, ?, ?, ?, ?)
		`, profileID, ve.Category, ve.MinAmount, ve.MaxAmount, i); err != nil {
			return fmt.Errorf("failed to insert variable expense %q: %w", ve.Category, err)
		}
	}

	for i, g := range in.Goals {
		var deadline sql.NullInt64
		if g.Deadline != nil {
			deadline = sql.NullInt64{Int64: g.Deadline.Unix(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO financial_goals
				(profile_id, name, target_amount, current_amount, deadline, priority, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, profileID, g.Name, g.TargetAmount, g.CurrentAmount, deadline, g.Priority, i); err != nil {
			return fmt.Errorf("failed to insert goal %q: %w", g.Name, err)
		}
	}
	return nil
}

func (r *Repository) fixedExpenses(ctx context.Context, profileID int64) ([]FixedExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, amount FROM fixed_expenses
		WHERE profile_id = ? ORDER BY position, id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixed expenses: %w", err)
	}
	defer rows.Close()

	out := []FixedExpense{}
	for rows.Next() {
		var fe FixedExpense
		if err := rows.Scan(&fe.ID, &fe.Category, &fe.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan fixed expense: %w", err)
		}
		out = append(out, fe)
	}
	return out, rows.Err()
}

func (r *Repository) variableExpenses(ctx context.Context, profileID int64) ([]VariableExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, min_amount, max_amount FROM variable_expenses
		WHERE profile_id = ? ORDER BY position, id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variable expenses: %w", err)
	}
	defer rows.Close()

	out := []VariableExpense{}
	for rows.Next() {
		var ve VariableExpense
		if err := rows.Scan(&ve.ID, &ve.Category, &ve.MinAmount, &ve.MaxAmount); err != nil {
			return nil, fmt.Errorf("failed to scan variable expense: %w", err)
		}
		out = append(out, ve)
	}
	return out, rows.Err()
}

func (r *Repository) goals(ctx context.Context, profileID int64) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_amount, current_amount, deadline, priority FROM financial_goals
		WHERE profile_id = ? ORDER BY position, id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	out := []Goal{}
	for rows.Next() {
		var g Goal
		var deadline sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &g.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if deadline.Valid {
			d := Date{time.Unix(deadline.Int64, 0).UTC()}
			g.Deadline = &d
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
