// Package sqlite provides the public API for the SQLite meal store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"context"

	"github.com/mesh-intelligence/mealtracker/internal/sqlite"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Backend is a Store that can also move meals in and out of JSONL files.
type Backend interface {
	types.Store

	// ExportMeals writes every meal to path, one JSON object per line, and
	// returns the number written.
	ExportMeals(ctx context.Context, path string) (int, error)

	// ImportMeals reads meals from a JSONL file. Meals whose ID already
	// exists are skipped. Returns the number of meals added.
	ImportMeals(ctx context.Context, path string) (int, error)
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/mealtracker",
//	})
//	defer backend.Detach()
func NewBackend() Backend {
	return sqlite.NewBackend()
}
