package server

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealtracker/internal/auth"
	"github.com/mesh-intelligence/mealtracker/internal/gamification"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

func (s *Server) mealTable(w http.ResponseWriter) (types.MealTable, bool) {
	meals, err := s.store.Meals()
	if err != nil {
		s.storeError(w, "Failed to open meal storage.", err)
		return nil, false
	}
	return meals, true
}

func (s *Server) storeError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg, err.Error())
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	meals, ok := s.mealTable(w)
	if !ok {
		return
	}
	list, err := meals.List(r.Context())
	if err != nil {
		s.storeError(w, "Failed to query meals.", err)
		return
	}
	writeJSON(w, http.StatusOK, types.MealList{Count: len(list), Meals: list})
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[types.MealRequest](w, r)

	photoRef := req.PhotoReference()
	detection := s.detector.Detect(req.Foods, req.NutritionHints, photoRef)
	if len(detection.Foods) == 0 {
		writeError(w, http.StatusBadRequest, "Provide at least one food item or a photo reference.", "")
		return
	}

	override, err := req.CalorieOverride()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Calories must be a number.", "")
		return
	}
	calories := detection.Calories
	if override != nil {
		calories = *override
	}

	meal := &types.Meal{
		Foods:             detection.Foods,
		Calories:          math.Round(calories*10) / 10,
		Points:            gamification.Points(calories, detection.Foods),
		Mood:              req.Mood,
		Notes:             req.Notes,
		CalorieMethod:     detection.Method,
		CalorieConfidence: math.Round(detection.Confidence*100) / 100,
		CreatedAt:         s.now().UTC(),
		MealName:          mealName(req.MealName, detection.Foods),
		UserID:            s.resolveUserID(r, req.UserID),
	}
	if photoRef != "" {
		meal.Photo = &photoRef
	}

	meals, ok := s.mealTable(w)
	if !ok {
		return
	}
	if _, err := meals.Insert(r.Context(), meal); err != nil {
		s.storeError(w, "Failed to save meal.", err)
		return
	}
	s.logger.Debug("meal recorded",
		zap.String("id", meal.ID),
		zap.String("method", meal.CalorieMethod),
		zap.Float64("calories", meal.Calories),
		zap.Int("points", meal.Points),
	)
	writeJSON(w, http.StatusCreated, types.CreatedMeal{Meal: *meal, CalorieExplanation: detection.Explanation})
}

// mealName picks the requested name, else the first food, else "Meal".
func mealName(requested *string, foods []types.FoodItem) string {
	if requested != nil {
		if name := strings.TrimSpace(*requested); name != "" {
			return name
		}
	}
	if len(foods) > 0 && foods[0].Name != "" {
		return foods[0].Name
	}
	return "Meal"
}

// resolveUserID prefers the subject of a valid bearer token, then the
// user_id from the body, then the demo user.
func (s *Server) resolveUserID(r *http.Request, bodyID *string) string {
	if s.issuer.Ready() {
		if sub, err := s.issuer.Subject(auth.BearerToken(r)); err == nil && sub != "" {
			return sub
		}
	}
	if bodyID != nil {
		if id := strings.TrimSpace(*bodyID); id != "" {
			return id
		}
	}
	return types.DemoUserID
}

func (s *Server) handleGetMeal(w http.ResponseWriter, r *http.Request) {
	meals, ok := s.mealTable(w)
	if !ok {
		return
	}
	meal, err := meals.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		writeError(w, http.StatusNotFound, "Meal not found.", "")
		return
	}
	if err != nil {
		s.storeError(w, "Failed to query meals.", err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	meals, ok := s.mealTable(w)
	if !ok {
		return
	}
	err := meals.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		writeError(w, http.StatusNotFound, "Meal not found.", "")
		return
	}
	if err != nil {
		s.storeError(w, "Failed to delete meal.", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	meals, ok := s.mealTable(w)
	if !ok {
		return
	}
	ctx := r.Context()
	list, err := meals.List(ctx)
	if err != nil {
		s.storeError(w, "Failed to query meals.", err)
		return
	}
	points, err := meals.TotalPoints(ctx)
	if err != nil {
		s.storeError(w, "Failed to query meals.", err)
		return
	}
	writeJSON(w, http.StatusOK, gamification.BuildInsights(list, points, len(list), s.now()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	meals, ok := s.mealTable(w)
	if !ok {
		return
	}
	list, err := meals.List(r.Context())
	if err != nil {
		s.storeError(w, "Failed to query meals.", err)
		return
	}
	writeJSON(w, http.StatusOK, gamification.Weekly(list, s.now()))
}
