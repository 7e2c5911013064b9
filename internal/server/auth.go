package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealtracker/internal/auth"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgMissingAPISecret = "Server misconfigured: missing API_SECRET"
	msgCredsRequired    = "Email and password are required."
	msgInvalidCreds     = "Invalid credentials."
)

// gateAPISecret writes an error and returns false unless the request carries
// the configured API secret.
func (s *Server) gateAPISecret(w http.ResponseWriter, r *http.Request) bool {
	if s.apiSecret == "" {
		writeError(w, http.StatusInternalServerError, msgMissingAPISecret, "")
		return false
	}
	if !auth.APISecretValid(r, s.apiSecret) {
		writeError(w, http.StatusUnauthorized, msgUnauthorized, "")
		return false
	}
	return true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.gateAPISecret(w, r) {
		return
	}
	creds := decodeBody[types.Credentials](w, r)
	email := auth.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, msgCredsRequired, "")
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		s.storeError(w, "Failed to create user.", err)
		return
	}
	users, err := s.store.Users()
	if err != nil {
		s.storeError(w, "Failed to open user storage.", err)
		return
	}
	err = users.Create(r.Context(), email, hash)
	if errors.Is(err, types.ErrUserExists) {
		writeError(w, http.StatusConflict, "User already exists.", "")
		return
	}
	if err != nil {
		s.storeError(w, "Failed to create user.", err)
		return
	}
	s.logger.Info("user signed up", zap.String("email", email))
	writeJSON(w, http.StatusCreated, types.StatusResponse{Status: "created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.gateAPISecret(w, r) {
		return
	}
	creds := decodeBody[types.Credentials](w, r)
	email := auth.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, msgCredsRequired, "")
		return
	}

	users, err := s.store.Users()
	if err != nil {
		s.storeError(w, "Failed to open user storage.", err)
		return
	}
	hash, err := users.PasswordHash(r.Context(), email)
	if errors.Is(err, types.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, msgInvalidCreds, "")
		return
	}
	if err != nil {
		s.storeError(w, "Failed to read user.", err)
		return
	}
	if !auth.CheckPassword(hash, creds.Password) {
		writeError(w, http.StatusUnauthorized, msgInvalidCreds, "")
		return
	}

	token, err := s.issuer.Issue(email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, types.TokenResponse{Token: token})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgUnauthorized, "")
		return
	}
	email, err := s.issuer.Subject(token)
	if errors.Is(err, auth.ErrMissingSecret) {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized, "")
		return
	}
	writeJSON(w, http.StatusOK, types.Identity{Email: email})
}

// handleLogout acknowledges a logout. Sessions are stateless tokens, so there
// is nothing to revoke.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.StatusResponse{Status: "logged_out"})
}
