// Root command for the mealtracker CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/mealtracker/internal/dashboard"
	"github.com/mesh-intelligence/mealtracker/internal/paths"
	"github.com/mesh-intelligence/mealtracker/pkg/client"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagAPIURL    string
	flagAPIKey    string
	flagOutput    string
	flagVerbose   bool
)

// Set by PersistentPreRunE so all subcommands can use them.
var (
	configDir string
	cfg       *viper.Viper
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mealtracker",
	Short: "Track meals, calories and BMI",
	Long: `mealtracker logs meals with estimated calories, computes weekly
insights and achievements, and keeps a height/weight profile for BMI.

Run "mealtracker serve" to start the API, then use the other commands or
"mealtracker dashboard" against it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(flagOutput); err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if flagVerbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = l

		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		configDir = dir

		v, err := loadConfig(dir)
		if err != nil {
			return err
		}
		cfg = v
		logger.Debug("config loaded", zap.String("config_dir", dir), zap.String("file", v.ConfigFileUsed()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/mealtracker)")
	pf.StringVar(&flagDataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/mealtracker)")
	pf.StringVar(&flagAPIURL, "api-url", "", "meal tracker API base URL (default: config api_url)")
	pf.StringVar(&flagAPIKey, "api-key", "", "API secret sent as X-API-Key (default: config api_secret)")
	pf.StringVarP(&flagOutput, "output", "o", outputText, "output format: text, json or yaml")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mealsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(bmiCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// resolveDataDir returns the data directory path following the precedence:
// --data-dir flag > config.yaml data_dir > MEALTRACKER_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))
}

// resolveConfigDir returns the configuration directory following the precedence:
// --config-dir flag > MEALTRACKER_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// exitCode maps an error to a process exit code. API rejections and
// cancelled prompts are user errors; everything else is a system error.
func exitCode(err error) int {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		return exitUserError
	case errors.Is(err, dashboard.ErrCancelled), errors.Is(err, errUsage):
		return exitUserError
	default:
		return exitSysError
	}
}
