// Package history persists optimization results per budget profile.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/budgetopt/internal/database"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 10

// ErrNoResults is returned when a profile has no stored results.
var ErrNoResults = errors.New("no optimization results")

// StoredResult is an optimization result as persisted for a profile.
type StoredResult struct {
	ID        string               `json:"id"`
	ProfileID int64                `json:"profile_id"`
	Status    optimization.Status  `json:"status"`
	Mode      optimization.Mode    `json:"mode"`
	Result    *optimization.Result `json:"result"`
	CreatedAt time.Time            `json:"created_at"`
}

// Repository stores results in the optimization_results table. The result
// itself is kept as an opaque JSON blob.
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new history repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repository", "history").Logger(),
	}
}

// Save stores res for profileID.
func (r *Repository) Save(ctx context.Context, profileID int64, res *optimization.Result) (StoredResult, error) {
	if res == nil {
		return StoredResult{}, errors.New("nil result")
	}
	blob, err := json.Marshal(res)
	if err != nil {
		return StoredResult{}, fmt.Errorf("failed to encode result: %w", err)
	}

	stored := StoredResult{
		ID:        uuid.New().String(),
		ProfileID: profileID,
		Status:    res.Status,
		Mode:      res.Mode,
		Result:    res,
		CreatedAt: r.now().UTC(),
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO optimization_results (id, profile_id, status, mode, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, stored.ID, profileID, string(stored.Status), string(stored.Mode), string(blob), stored.CreatedAt.UnixNano())
	if err != nil {
		return StoredResult{}, fmt.Errorf("failed to save result for profile %d: %w", profileID, err)
	}

	r.log.Debug().
		Str("result_id", stored.ID).
		Int64("profile_id", profileID).
		Str("status", string(stored.Status)).
		Msg("Stored optimization result")
	return stored, nil
}

// Latest returns the newest result of a profile.
func (r *Repository) Latest(ctx context.Context, profileID int64) (StoredResult, error) {
	results, err := r.List(ctx, profileID, 1)
	if err != nil {
		return StoredResult{}, err
	}
	if len(results) == 0 {
		return StoredResult{}, fmt.Errorf("profile %d: %w", profileID, ErrNoResults)
	}
	return results[0], nil
}

// List returns up to limit results of a profile, newest first.
func (r *Repository) List(ctx context.Context, profileID int64, limit int) ([]StoredResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, mode, result_json, created_at
		FROM optimization_results
		WHERE profile_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []StoredResult{}
	for rows.Next() {
		var (
			s       StoredResult
			status  string
			mode    string
			blob    string
			created int64
		)
		if err := rows.Scan(&s.ID, &status, &mode, &blob, &created); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		s.ProfileID = profileID
		s.Status = optimization.Status(status)
		s.Mode = optimization.Mode(mode)
		s.CreatedAt = time.Unix(0, created).UTC()

		s.Result = &optimization.Result{}
		if err := json.Unmarshal([]byte(blob), s.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result %s: %w", s.ID, err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// Prune keeps the newest keep results of every profile and deletes the rest.
// It returns the number of deleted rows.
func (r *Repository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}

	var deleted int64
	err := database.WithTransactionContext(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM optimization_results
			WHERE rowid IN (
				SELECT rowid FROM (
					SELECT rowid, ROW_NUMBER() OVER (
						PARTITION BY profile_id ORDER BY created_at DESC, rowid DESC
					) AS rn
					FROM optimization_results
				) WHERE rn > ?
			)
		`, keep)
		if err != nil {
			return fmt.Errorf("failed to prune results: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Int("keep_per_profile", keep).Msg("Pruned optimization history")
	}
	return deleted, nil
}
