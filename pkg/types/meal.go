package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// Calorie detection methods recorded on each meal.
const (
	MethodManual   = "manual"
	MethodHint     = "hint"
	MethodPhoto    = "photo"
	MethodFallback = "fallback"
)

// Macros holds macronutrient grams for a food.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Add returns the per-field sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{Protein: m.Protein + o.Protein, Carbs: m.Carbs + o.Carbs, Fat: m.Fat + o.Fat}
}

// FoodItem is a normalized food entry with an estimated calorie count.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Quantity float64 `json:"quantity,omitempty"`
	Macros   *Macros `json:"macros,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// Meal is a logged meal as stored and returned by the API.
type Meal struct {
	ID                string     `json:"id"`
	Foods             []FoodItem `json:"foods"`
	Calories          float64    `json:"calories"`
	Points            int        `json:"points"`
	Mood              *string    `json:"mood"`
	Notes             *string    `json:"notes"`
	Photo             *string    `json:"photo"`
	CalorieMethod     string     `json:"calorie_method"`
	CalorieConfidence float64    `json:"calorie_confidence"`
	CreatedAt         time.Time  `json:"created_at"`
	MealName          string     `json:"meal_name,omitempty"`
	UserID            string     `json:"user_id,omitempty"`
}

// CreatedMeal is the response body of a successful meal creation.
type CreatedMeal struct {
	Meal
	CalorieExplanation string `json:"calorieExplanation"`
}

// MealList is the response body of the meal listing endpoints.
type MealList struct {
	Count int    `json:"count"`
	Meals []Meal `json:"meals"`
}

// FoodInput is a food as submitted by a client: either a free-text label
// such as "2 eggs" or a structured object.
type FoodInput struct {
	// Text is true when the food was given as a plain label.
	Text  bool
	Label string

	Name     string
	Quantity float64
	Servings float64
	Calories *float64
	Macros   *Macros
	Source   string
}

// TextFood returns a FoodInput for a free-text label.
func TextFood(label string) FoodInput {
	return FoodInput{Text: true, Label: label}
}

type foodObject struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity,omitempty"`
	Servings float64  `json:"servings,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Macros   *Macros  `json:"macros,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// UnmarshalJSON accepts a JSON string or object.
func (f *FoodInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*f = TextFood(label)
		return nil
	}
	var obj struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"quantity"`
		Servings json.RawMessage `json:"servings"`
		Calories json.RawMessage `json:"calories"`
		Macros   *Macros         `json:"macros"`
		Source   string          `json:"source"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	// Numbers may arrive as numeric strings; anything else counts as absent.
	calories, _ := ParseNumber(obj.Calories)
	*f = FoodInput{
		Name:     obj.Name,
		Quantity: lenientNumber(obj.Quantity),
		Servings: lenientNumber(obj.Servings),
		Calories: calories,
		Macros:   obj.Macros,
		Source:   obj.Source,
	}
	return nil
}

func lenientNumber(raw json.RawMessage) float64 {
	v, err := ParseNumber(raw)
	if err != nil || v == nil {
		return 0
	}
	return *v
}

// MarshalJSON writes text foods as strings and structured foods as objects.
func (f FoodInput) MarshalJSON() ([]byte, error) {
	if f.Text {
		return json.Marshal(f.Label)
	}
	return json.Marshal(foodObject{
		Name:     f.Name,
		Quantity: f.Quantity,
		Servings: f.Servings,
		Calories: f.Calories,
		Macros:   f.Macros,
		Source:   f.Source,
	})
}

// MealRequest is the body of a meal creation request.
type MealRequest struct {
	Foods          []FoodInput     `json:"foods,omitempty"`
	NutritionHints []FoodInput     `json:"nutritionHints,omitempty"`
	PhotoURL       string          `json:"photoUrl,omitempty"`
	PhotoData      string          `json:"photoData,omitempty"`
	Calories       json.RawMessage `json:"calories,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	Mood           *string         `json:"mood,omitempty"`
	MealName       *string         `json:"meal_name,omitempty"`
	UserID         *string         `json:"user_id,omitempty"`
}

// SetCalories sets the calorie override.
func (r *MealRequest) SetCalories(v float64) {
	r.Calories = numberJSON(v)
}

// CalorieOverride returns the calorie override, or nil when absent.
// Returns ErrNotANumber when the value is not numeric.
func (r MealRequest) CalorieOverride() (*float64, error) {
	return ParseNumber(r.Calories)
}

// PhotoReference returns the photo URL, falling back to inline photo data.
func (r MealRequest) PhotoReference() string {
	if r.PhotoURL != "" {
		return r.PhotoURL
	}
	return r.PhotoData
}
