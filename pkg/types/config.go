package types

import (
	"errors"
	"strings"
)

// DemoUserID owns meals logged without a signed-in user.
const DemoUserID = "demo"

// Config selects and parameterizes the storage backend for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DefaultUserID is recorded on meals stored without a user.
	// Empty means DemoUserID.
	DefaultUserID string `json:"default_user_id,omitempty" yaml:"default_user_id,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrUserIDInvalid  = errors.New("default user id must not contain whitespace")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if strings.ContainsFunc(c.DefaultUserID, isSpace) {
		return ErrUserIDInvalid
	}
	return nil
}

// UserID returns the owner for meals stored without one.
func (c Config) UserID() string {
	if c.DefaultUserID == "" {
		return DemoUserID
	}
	return c.DefaultUserID
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
