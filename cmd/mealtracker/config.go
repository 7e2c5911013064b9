// Config loading for the mealtracker CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mealtracker/internal/paths"
	"github.com/mesh-intelligence/mealtracker/pkg/client"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "MEALTRACKER"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyDefaultUserID  = "default_user_id"
	cfgKeyAPIURL         = "api_url"
	cfgKeyAddr           = "addr"
	cfgKeyAPISecret      = "api_secret"
	cfgKeyJWTSecret      = "jwt_secret"
	cfgKeyAllowedOrigins = "allowed_origins"

	defaultAddr = ":5000"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# mealtracker configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Owner recorded on meals logged without a signed-in user (default: demo)
# default_user_id:

# API used by the client commands and the dashboard
api_url: http://localhost:5000

# Listen address for "mealtracker serve"
addr: ":5000"

# Shared secret required by /auth/signup and /auth/login (env: API_SECRET)
# api_secret:

# Secret used to sign login tokens (env: JWT_SECRET)
# jwt_secret:

# Browser origins allowed by CORS
# allowed_origins:
#   - http://localhost:3000
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run and
// loads .env files from the config directory and the working directory.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	if err := loadEnvFiles(filepath.Join(configDir, paths.EnvFileName), paths.EnvFileName); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyAPIURL, client.DefaultBaseURL)
	v.SetDefault(cfgKeyAddr, defaultAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Names used by existing deployments.
	_ = v.BindEnv(cfgKeyAPISecret, "MEALTRACKER_API_SECRET", "API_SECRET")
	_ = v.BindEnv(cfgKeyJWTSecret, "MEALTRACKER_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv(cfgKeyAPIURL, "MEALTRACKER_API_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// loadEnvFiles loads each existing .env file into the process environment.
// Variables already set win over file values.
func loadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// readToken returns the cached login token, or "" when none is stored.
func readToken(configDir string) (string, error) {
	data, err := os.ReadFile(paths.TokenFile(configDir))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// writeToken caches a login token with owner-only permissions.
func writeToken(configDir, token string) error {
	if err := os.WriteFile(paths.TokenFile(configDir), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// clearToken removes the cached login token. A missing token is not an error.
func clearToken(configDir string) error {
	if err := os.Remove(paths.TokenFile(configDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
