package server

import (
	"net/http"

	"github.com/mesh-intelligence/mealtracker/internal/bmi"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const msgNotNumbers = "Height and weight must be numbers."

// profileBMI returns the BMI of a profile, or nil when a value is missing,
// zero or invalid.
func profileBMI(p types.Profile) *float64 {
	if p.Height == nil || p.Weight == nil || *p.Height == 0 || *p.Weight == 0 {
		return nil
	}
	v, err := bmi.Calc(p.Weight, p.Height)
	if err != nil {
		return nil
	}
	return &v
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.Profiles()
	if err != nil {
		s.storeError(w, "Failed to open profile storage.", err)
		return
	}
	profile, err := profiles.Get(r.Context())
	if err != nil {
		s.storeError(w, "Failed to read profile.", err)
		return
	}
	writeJSON(w, http.StatusOK, types.ProfileResponse{Profile: profile, BMI: profileBMI(profile)})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[types.ProfileUpdate](w, r)
	height, err := types.ParseNumber(req.Height)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNotNumbers, "")
		return
	}
	weight, err := types.ParseNumber(req.Weight)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNotNumbers, "")
		return
	}

	profiles, err := s.store.Profiles()
	if err != nil {
		s.storeError(w, "Failed to open profile storage.", err)
		return
	}
	profile, err := profiles.Update(r.Context(), height, weight)
	if err != nil {
		s.storeError(w, "Failed to update profile.", err)
		return
	}
	writeJSON(w, http.StatusOK, types.ProfileResponse{Profile: profile, BMI: profileBMI(profile)})
}

func (s *Server) handleBMI(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[types.BMIRequest](w, r)
	weight, werr := types.ParseNumber(req.Weight)
	height, herr := types.ParseNumber(req.Height)
	if (werr == nil && weight == nil) || (herr == nil && height == nil) {
		writeError(w, http.StatusBadRequest, "Both weight and height are required.", "")
		return
	}
	if werr != nil || herr != nil {
		writeError(w, http.StatusBadRequest, msgNotNumbers, "")
		return
	}
	v, err := bmi.Calc(weight, height)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, types.BMIResponse{BMI: v})
}
