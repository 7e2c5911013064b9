// Package gamification turns logged meals into points, weekly summaries,
// streaks, achievements and coaching tips. Every function that depends on the
// current date takes it as an argument.
package gamification

import (
	"math"
	"strings"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const minPoints = 5

var proteinTokens = []string{"chicken", "tofu", "egg", "yogurt"}

// Points scores a single meal. Lighter, balanced, varied meals with plants
// and lean protein earn more; very heavy meals are penalised.
func Points(calories float64, foods []types.FoodItem) int {
	base := max(minPoints, 60-int(math.Floor(calories/12)))

	labels := make([]string, 0, len(foods))
	distinct := make(map[string]struct{}, len(foods))
	for _, f := range foods {
		label := strings.ToLower(f.Name)
		labels = append(labels, label)
		if label != "" {
			distinct[label] = struct{}{}
		}
	}

	total := base
	if anyContains(labels, "salad", "vegg") {
		total += 5
	}
	if anyContains(labels, proteinTokens...) {
		total += 5
	}
	total += min(10, max(0, len(distinct)-1)*2)
	if calories >= 350 && calories <= 650 {
		total += 8
	}
	if calories > 900 {
		total -= 5
	}
	return max(minPoints, total)
}

func anyContains(labels []string, tokens ...string) bool {
	for _, label := range labels {
		for _, tok := range tokens {
			if strings.Contains(label, tok) {
				return true
			}
		}
	}
	return false
}
