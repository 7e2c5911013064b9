package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Compile-time interface check: usersTable must implement UserTable.
var _ types.UserTable = (*usersTable)(nil)

// usersTable stores signed-up users keyed by email.
type usersTable struct {
	backend *Backend
}

// Create stores a user, returning ErrUserExists when the email is taken.
func (ut *usersTable) Create(ctx context.Context, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return types.ErrInvalidData
	}
	db, err := ut.backend.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return types.ErrUserExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking user existence: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)",
		email, passwordHash, time.Now().UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("persisting user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user: %w", err)
	}
	return nil
}

// PasswordHash returns the stored hash for email or ErrNotFound.
func (ut *usersTable) PasswordHash(ctx context.Context, email string) (string, error) {
	db, err := ut.backend.conn()
	if err != nil {
		return "", err
	}
	var hash string
	err = db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE email = ?", email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading user: %w", err)
	}
	return hash, nil
}
