package nutrition

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Detection is the result of estimating a meal's calories.
type Detection struct {
	Foods       []types.FoodItem
	Calories    float64
	Method      string
	Confidence  float64
	Explanation string
}

// baseConfidence is the starting confidence per detection method.
var baseConfidence = map[string]float64{
	types.MethodManual:   0.92,
	types.MethodPhoto:    0.78,
	types.MethodHint:     0.68,
	types.MethodFallback: 0.5,
}

const (
	otherConfidence = 0.6
	minConfidence   = 0.35
	maxConfidence   = 0.98
)

// Detector derives a calorie estimate from explicit foods, nutrition hints
// or a photo, in that order of preference.
type Detector struct {
	recognizer Recognizer
}

// NewDetector returns a Detector. A nil recognizer uses HashRecognizer.
func NewDetector(r Recognizer) *Detector {
	if r == nil {
		r = HashRecognizer{}
	}
	return &Detector{recognizer: r}
}

// Detect estimates calories for a meal.
func (d *Detector) Detect(foods, hints []types.FoodInput, photoRef string) Detection {
	method := types.MethodManual
	source := foods

	if len(source) == 0 && len(hints) > 0 {
		method = types.MethodHint
		source = hints
	}
	if len(source) == 0 && photoRef != "" {
		method = types.MethodPhoto
		for _, label := range d.recognizer.Recognize(photoRef) {
			source = append(source, types.TextFood(label))
		}
	}
	if len(source) == 0 {
		method = types.MethodFallback
	}

	items, total := Estimate(source)
	confidence := Confidence(method, items)
	return Detection{
		Foods:       items,
		Calories:    total,
		Method:      method,
		Confidence:  confidence,
		Explanation: Explain(items, total, method, confidence),
	}
}

// Confidence scores an estimate from its method, the share of foods with a
// calorie value and the number of distinct foods.
func Confidence(method string, foods []types.FoodItem) float64 {
	base, ok := baseConfidence[method]
	if !ok {
		base = otherConfidence
	}
	var coverage, diversity float64
	if len(foods) > 0 {
		withCalories := 0
		names := make(map[string]struct{}, len(foods))
		for _, f := range foods {
			if f.Calories != 0 {
				withCalories++
			}
			if f.Name != "" {
				names[f.Name] = struct{}{}
			}
		}
		coverage = float64(withCalories) / float64(len(foods))
		diversity = float64(len(names)) / 10
	}
	c := base + 0.1*coverage + diversity
	return round(math.Max(minConfidence, math.Min(c, maxConfidence)), 2)
}

// Explain renders a one-paragraph description of an estimate.
func Explain(foods []types.FoodItem, calories float64, method string, confidence float64) string {
	if len(foods) == 0 {
		return "No recognizable foods detected; using default calorie estimate."
	}
	parts := make([]string, 0, len(foods))
	for _, f := range foods {
		if f.Calories != 0 {
			parts = append(parts, fmt.Sprintf("%s (%d kcal)", f.Name, int(f.Calories)))
			continue
		}
		parts = append(parts, f.Name)
	}
	return fmt.Sprintf("Detected via %s input with %d%% confidence. Breakdown: %s. Total estimate: %s kcal.",
		method, int(math.Round(confidence*100)), strings.Join(parts, ", "), strconv.FormatFloat(calories, 'f', -1, 64))
}
