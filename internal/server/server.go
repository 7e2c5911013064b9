// Package server exposes the meal tracker REST API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealtracker/internal/auth"
	"github.com/mesh-intelligence/mealtracker/internal/nutrition"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// DefaultAllowedOrigins are the browser origins accepted by CORS when none
// are configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"https://app.shaysystems.com",
}

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 10 << 20
)

// Config holds the server settings.
type Config struct {
	// APISecret gates signup and login. Empty disables both.
	APISecret string
	// JWTSecret signs session tokens. Empty disables token issuance.
	JWTSecret string
	// TokenTTL is the session token lifetime; zero selects the default.
	TokenTTL time.Duration
	// AllowedOrigins lists CORS origins; nil selects DefaultAllowedOrigins.
	AllowedOrigins []string
}

// Pinger is implemented by stores that can report database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the REST API on top of an attached Store.
type Server struct {
	store     types.Store
	detector  *nutrition.Detector
	issuer    *auth.Issuer
	apiSecret string
	logger    *zap.Logger
	now       func() time.Time
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDetector replaces the calorie detector.
func WithDetector(d *nutrition.Detector) Option {
	return func(s *Server) { s.detector = d }
}

// WithClock replaces the clock used for insights and meal timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New returns a Server for an attached store. A nil logger disables logging.
func New(store types.Store, cfg Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:     store,
		detector:  nutrition.NewDetector(nil),
		issuer:    auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		apiSecret: cfg.APISecret,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes(cfg)
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(cfg Config) chi.Router {
	origins := cfg.AllowedOrigins
	if origins == nil {
		origins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/healthz", s.handleAPIHealth)
	r.Post("/bmi", s.handleBMI)

	r.Get("/meals", s.handleListMeals)
	r.Post("/meals", s.handleCreateMeal)

	r.Route("/api/meals", func(r chi.Router) {
		r.Get("/", s.handleListMeals)
		r.Post("/", s.handleCreateMeal)
		r.Get("/insights", s.handleInsights)
		r.Get("/summary", s.handleSummary)
		r.Get("/{id}", s.handleGetMeal)
		r.Delete("/{id}", s.handleDeleteMeal)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)
		r.Post("/bmi", s.handleBMI)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Get("/profile", s.handleWhoAmI)
		r.Post("/logout", s.handleLogout)
	})
	return r
}

// Serve listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
