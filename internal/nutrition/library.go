// Package nutrition estimates meal calories from food descriptions, nutrition
// hints or a photo reference.
package nutrition

import (
	"strings"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Profile is the per-serving calorie and macronutrient content of a food.
type Profile struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// DefaultProfile is used for foods missing from the library.
var DefaultProfile = Profile{Calories: 220, Protein: 8, Carbs: 20, Fat: 9}

// Library maps lower-case food names to their per-serving profile.
var Library = map[string]Profile{
	"salad":             {150, 4, 12, 9},
	"grilled chicken":   {250, 35, 0, 11},
	"chicken":           {240, 32, 0, 12},
	"rice":              {210, 4, 45, 2},
	"brown rice":        {195, 4, 41, 2},
	"avocado":           {160, 3, 9, 15},
	"smoothie":          {190, 6, 32, 4},
	"pasta":             {320, 12, 58, 4},
	"whole grain pasta": {300, 13, 54, 4},
	"oatmeal":           {180, 6, 30, 4},
	"berries":           {85, 1, 21, 0},
	"veggies":           {120, 4, 18, 2},
	"steak":             {400, 32, 0, 30},
	"tofu":              {160, 16, 6, 9},
	"protein shake":     {200, 25, 6, 5},
	"yogurt":            {120, 12, 14, 3},
	"greek yogurt":      {140, 17, 9, 5},
	"eggs":              {150, 12, 1, 11},
	"egg":               {78, 6, 0, 5},
	"sweet potato":      {130, 2, 27, 0},
	"quinoa":            {220, 8, 39, 3},
	"lentils":           {200, 18, 34, 1},
	"beans":             {210, 15, 35, 2},
	"banana":            {105, 1, 27, 0},
	"apple":             {95, 0, 25, 0},
	"spinach":           {40, 5, 4, 0},
}

// Lookup returns the library profile for name, or DefaultProfile.
func Lookup(name string) Profile {
	if p, ok := Library[normalizedName(name)]; ok {
		return p
	}
	return DefaultProfile
}

// Scale multiplies every field by quantity, rounding to one decimal.
func (p Profile) Scale(quantity float64) Profile {
	return Profile{
		Calories: round(p.Calories*quantity, 1),
		Protein:  round(p.Protein*quantity, 1),
		Carbs:    round(p.Carbs*quantity, 1),
		Fat:      round(p.Fat*quantity, 1),
	}
}

// Macros returns the macronutrient part of the profile.
func (p Profile) Macros() *types.Macros {
	return &types.Macros{Protein: p.Protein, Carbs: p.Carbs, Fat: p.Fat}
}

func normalizedName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
