// Serve command: runs the meal tracker HTTP API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealtracker/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the meal tracker API server",
	Long: `Serve attaches the SQLite store and serves the HTTP API until
interrupted.

API_SECRET (or api_secret in config.yaml) must be sent with /auth/signup and
/auth/login requests. JWT_SECRET (or jwt_secret) signs the tokens returned by
login. The meal and profile routes need neither.

Example:
  mealtracker serve
  mealtracker serve --addr 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default: config addr or :5000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	addr := flagAddr
	if addr == "" {
		addr = cfg.GetString(cfgKeyAddr)
	}

	srvCfg := server.Config{
		APISecret:      cfg.GetString(cfgKeyAPISecret),
		JWTSecret:      cfg.GetString(cfgKeyJWTSecret),
		AllowedOrigins: cfg.GetStringSlice(cfgKeyAllowedOrigins),
	}
	if srvCfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set; login will fail")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(backend, srvCfg, logger)
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving meal tracker API on %s\n", addr)
	logger.Info("server starting", zap.String("addr", addr))
	if err := srv.Serve(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
