// Package sqlite implements the SQLite storage backend for the meal tracker.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// DatabaseFile is the name of the SQLite file created under DataDir.
const DatabaseFile = "mealtracker.db"

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a single SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	meals   *mealsTable
	profile *profileTable
	users   *usersTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	b := &Backend{}
	b.meals = &mealsTable{backend: b}
	b.profile = &profileTable{backend: b}
	b.users = &usersTable{backend: b}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, opens the database and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dsn := "file:" + filepath.Join(dataDir, DatabaseFile) + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach releases all resources held by the backend.
// After Detach, all operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Meals returns the meal table accessor.
func (b *Backend) Meals() (types.MealTable, error) {
	if _, err := b.conn(); err != nil {
		return nil, err
	}
	return b.meals, nil
}

// Profiles returns the profile table accessor.
func (b *Backend) Profiles() (types.ProfileTable, error) {
	if _, err := b.conn(); err != nil {
		return nil, err
	}
	return b.profile, nil
}

// Users returns the user table accessor.
func (b *Backend) Users() (types.UserTable, error) {
	if _, err := b.conn(); err != nil {
		return nil, err
	}
	return b.users, nil
}

// Ping verifies the database connection is usable.
func (b *Backend) Ping(ctx context.Context) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// conn returns the open database or ErrStoreDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// defaultUserID returns the owner for meals stored without a user.
func (b *Backend) defaultUserID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.UserID()
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
