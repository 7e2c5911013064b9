package types

import (
	"context"
	"errors"
)

// Store defines backend-agnostic access to meal tracker data.
// Callers attach to a backend, use the table accessors, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, table accessors return ErrStoreDetached.
	Detach() error

	Meals() (MealTable, error)
	Profiles() (ProfileTable, error)
	Users() (UserTable, error)
}

// MealTable stores logged meals.
type MealTable interface {
	// Insert persists a meal. An empty ID is replaced with a new UUID v7 and
	// a zero CreatedAt with the current time. Returns the stored ID.
	Insert(ctx context.Context, meal *Meal) (string, error)

	// Get returns the meal with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Meal, error)

	// List returns every meal, newest first.
	List(ctx context.Context) ([]Meal, error)

	// Delete removes the meal with the given ID or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored meals.
	Count(ctx context.Context) (int, error)

	// TotalPoints returns the sum of points across all meals.
	TotalPoints(ctx context.Context) (int, error)
}

// ProfileTable stores the single height/weight profile.
type ProfileTable interface {
	Get(ctx context.Context) (Profile, error)

	// Update sets the non-nil fields and returns the resulting profile.
	Update(ctx context.Context, height, weight *float64) (Profile, error)
}

// UserTable stores credentials for signed-up users.
type UserTable interface {
	// Create stores a user. Returns ErrUserExists when the email is taken.
	Create(ctx context.Context, email, passwordHash string) error

	// PasswordHash returns the stored hash or ErrNotFound.
	PasswordHash(ctx context.Context, email string) (string, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Table operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
	ErrUserExists  = errors.New("user already exists")
)
