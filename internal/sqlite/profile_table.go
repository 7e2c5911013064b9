package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Compile-time interface check: profileTable must implement ProfileTable.
var _ types.ProfileTable = (*profileTable)(nil)

// profileTable stores the single profile row (profile_id = 1).
type profileTable struct {
	backend *Backend
}

// Get returns the stored profile, or an empty one when none was saved.
func (pt *profileTable) Get(ctx context.Context) (types.Profile, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return types.Profile{}, err
	}
	return selectProfile(ctx, db)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func selectProfile(ctx context.Context, q queryRower) (types.Profile, error) {
	var height, weight sql.NullFloat64
	err := q.QueryRowContext(ctx, "SELECT height, weight FROM profile WHERE profile_id = 1").Scan(&height, &weight)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Profile{}, nil
	}
	if err != nil {
		return types.Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	return types.Profile{Height: nullFloat(height), Weight: nullFloat(weight)}, nil
}

// Update sets the non-nil fields and returns the resulting profile.
func (pt *profileTable) Update(ctx context.Context, height, weight *float64) (types.Profile, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return types.Profile{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.Profile{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	profile, err := selectProfile(ctx, tx)
	if err != nil {
		return types.Profile{}, err
	}
	if height != nil {
		profile.Height = height
	}
	if weight != nil {
		profile.Weight = weight
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profile (profile_id, height, weight, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET height = excluded.height, weight = excluded.weight, updated_at = excluded.updated_at`,
		profile.Height, profile.Weight, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return types.Profile{}, fmt.Errorf("persisting profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return types.Profile{}, fmt.Errorf("committing profile: %w", err)
	}
	return profile, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
