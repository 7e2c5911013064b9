package dashboard

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Moods offered when logging a meal.
var Moods = []string{"Energized", "Balanced", "Hungry", "Sleepy"}

// Form validation errors. Their text is shown to the user as is.
var (
	ErrNothingToLog    = errors.New("Add at least one food or attach a photo to continue.")
	ErrCaloriesNaN     = errors.New("Calories must be a number.")
	ErrUnknownMood     = errors.New("Mood must be one of Energized, Balanced, Hungry or Sleepy.")
	ErrProfileNotValid = errors.New("Height and weight must be numbers.")
)

// MealForm holds the raw text of the meal form.
type MealForm struct {
	// Foods is a comma separated list such as "grilled chicken, salad".
	Foods     string
	Calories  string
	Mood      string
	Notes     string
	PhotoURL  string
	PhotoData string
}

// SplitFoods splits a comma separated list, trimming entries and dropping
// empty ones.
func SplitFoods(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Request validates the form and builds the meal creation request.
func (f MealForm) Request() (types.MealRequest, error) {
	var req types.MealRequest
	for _, label := range SplitFoods(f.Foods) {
		req.Foods = append(req.Foods, types.TextFood(label))
	}
	req.PhotoURL = strings.TrimSpace(f.PhotoURL)
	req.PhotoData = f.PhotoData
	if len(req.Foods) == 0 && req.PhotoURL == "" && req.PhotoData == "" {
		return types.MealRequest{}, ErrNothingToLog
	}

	if cal := strings.TrimSpace(f.Calories); cal != "" {
		v, err := types.ParseNumberString(cal)
		if err != nil {
			return types.MealRequest{}, ErrCaloriesNaN
		}
		req.SetCalories(v)
	}
	if mood := strings.TrimSpace(f.Mood); mood != "" {
		canonical, ok := canonicalMood(mood)
		if !ok {
			return types.MealRequest{}, ErrUnknownMood
		}
		req.Mood = &canonical
	}
	if f.Notes != "" {
		notes := f.Notes
		req.Notes = &notes
	}
	return req, nil
}

func canonicalMood(s string) (string, bool) {
	for _, m := range Moods {
		if strings.EqualFold(m, s) {
			return m, true
		}
	}
	return "", false
}

// ProfileForm holds the raw text of the height and weight inputs.
type ProfileForm struct {
	Height string
	Weight string
}

// NewProfileForm pre-fills the form from a profile.
func NewProfileForm(p *ProfileView) ProfileForm {
	if p == nil {
		return ProfileForm{}
	}
	return ProfileForm{Height: formatOptional(p.Height), Weight: formatOptional(p.Weight)}
}

// Values parses the form. Empty inputs yield nil.
func (f ProfileForm) Values() (height, weight *float64, err error) {
	if height, err = parseOptional(f.Height); err != nil {
		return nil, nil, err
	}
	if weight, err = parseOptional(f.Weight); err != nil {
		return nil, nil, err
	}
	return height, weight, nil
}

func parseOptional(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := types.ParseNumberString(s)
	if err != nil {
		return nil, ErrProfileNotValid
	}
	return &v, nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
