// Shared helpers for mealtracker CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/mealtracker/pkg/client"
	"github.com/mesh-intelligence/mealtracker/pkg/sqlite"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// errUsage marks invalid command-line input.
var errUsage = errors.New("invalid usage")

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown output format %q (valid: text, json, yaml)", errUsage, format)
	}
}

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{
		Backend:       cfg.GetString(cfgKeyBackend),
		DataDir:       dataDir,
		DefaultUserID: cfg.GetString(cfgKeyDefaultUserID),
	}); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	logger.Debug("backend attached")
	return backend, nil
}

// apiURL returns the API base URL: --api-url flag, then config.
func apiURL() string {
	if flagAPIURL != "" {
		return flagAPIURL
	}
	return cfg.GetString(cfgKeyAPIURL)
}

// apiKey returns the API secret: --api-key flag, then config.
func apiKey() string {
	if flagAPIKey != "" {
		return flagAPIKey
	}
	return cfg.GetString(cfgKeyAPISecret)
}

// newClient builds an API client carrying the cached login token when one
// exists, and the API secret otherwise.
func newClient() (*client.Client, error) {
	token, err := readToken(configDir)
	if err != nil {
		return nil, err
	}
	opts := []client.Option{client.WithLogger(logger)}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	} else if key := apiKey(); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	return client.New(apiURL(), opts...), nil
}

// newAnonymousClient builds a client that authenticates with the API secret
// only, for signup and login.
func newAnonymousClient() *client.Client {
	opts := []client.Option{client.WithLogger(logger)}
	if key := apiKey(); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	return client.New(apiURL(), opts...)
}

// printOutput writes v in the selected output format. Text output is
// produced by text; JSON and YAML use the JSON field names of v.
func printOutput(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	return writeOutput(cmd.OutOrStdout(), flagOutput, v, text)
}

func writeOutput(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case outputYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		var generic any
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// formatCalories renders a calorie count without a trailing ".0".
func formatCalories(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

// optionalString returns nil for an empty string.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
