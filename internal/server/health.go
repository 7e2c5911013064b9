package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	database := false
	if p, ok := s.store.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("database ping failed", zap.Error(err))
		} else {
			database = true
		}
	} else if _, err := s.store.Meals(); err == nil {
		database = true
	}

	apiLoaded := s.apiSecret != ""
	jwtLoaded := s.issuer.Ready()
	writeJSON(w, http.StatusOK, types.Health{
		Status:          "UP",
		Database:        database,
		APISecretLoaded: apiLoaded,
		JWTSecretLoaded: jwtLoaded,
		AuthReady:       apiLoaded && jwtLoaded,
	})
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.StatusResponse{Status: "UP"})
}
