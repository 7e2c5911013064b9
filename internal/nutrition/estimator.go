package nutrition

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// quantityHints are word prefixes that scale a food label, checked in order.
var quantityHints = []struct {
	word   string
	factor float64
}{
	{"half", 0.5},
	{"quarter", 0.25},
	{"double", 2.0},
	{"single", 1.0},
}

var quantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:x|×)?\s*(.*)$`)

const (
	minQuantity  = 0.1
	unknownFood  = "Unknown food"
	sourceLib    = "library"
	sourceFall   = "fallback"
	sourceManual = "manual"
)

// ParseLabel splits a free-text food label such as "2 eggs" or "half avocado"
// into a food name and a serving multiplier.
func ParseLabel(label string) (string, float64) {
	cleaned := strings.TrimSpace(label)
	if cleaned == "" {
		return "", 1
	}

	lower := strings.ToLower(cleaned)
	for _, h := range quantityHints {
		if strings.HasPrefix(lower, h.word+" ") {
			return strings.TrimSpace(cleaned[len(h.word):]), h.factor
		}
	}

	if m := quantityPattern.FindStringSubmatch(cleaned); m != nil {
		q, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			name := strings.TrimSpace(m[2])
			if name == "" {
				name = cleaned
			}
			return name, max(q, minQuantity)
		}
	}
	return cleaned, 1
}

// Normalize converts submitted foods into food items with calorie and macro
// estimates. Foods with the same name are merged.
func Normalize(foods []types.FoodInput) []types.FoodItem {
	items := make([]types.FoodItem, 0, len(foods))
	for _, f := range foods {
		if f.Text {
			items = append(items, fromLabel(f.Label))
			continue
		}
		items = append(items, fromObject(f))
	}
	return dedupe(items)
}

func fromLabel(label string) types.FoodItem {
	name, quantity := ParseLabel(label)
	scaled := Lookup(name).Scale(quantity)
	item := types.FoodItem{
		Name:     name,
		Calories: scaled.Calories,
		Quantity: quantity,
		Macros:   scaled.Macros(),
		Source:   sourceLib,
	}
	if name == "" {
		item.Name = unknownFood
		item.Source = sourceFall
	}
	return item
}

func fromObject(f types.FoodInput) types.FoodItem {
	name := strings.TrimSpace(f.Name)
	quantity := f.Quantity
	if quantity == 0 {
		quantity = f.Servings
	}
	if quantity == 0 {
		quantity = 1
	}

	macros := f.Macros
	var calories float64
	if f.Calories != nil {
		calories = *f.Calories
	}
	if calories == 0 {
		scaled := Lookup(name).Scale(quantity)
		calories = scaled.Calories
		if macros == nil {
			macros = scaled.Macros()
		}
	}

	item := types.FoodItem{
		Name:     name,
		Calories: round(calories, 1),
		Quantity: quantity,
		Macros:   macros,
		Source:   f.Source,
	}
	if item.Name == "" {
		item.Name = unknownFood
	}
	if item.Source == "" {
		item.Source = sourceManual
	}
	return item
}

func dedupe(items []types.FoodItem) []types.FoodItem {
	index := make(map[string]int, len(items))
	out := make([]types.FoodItem, 0, len(items))
	for _, item := range items {
		key := normalizedName(item.Name)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, item)
			continue
		}
		target := &out[i]
		target.Calories = round(target.Calories+item.Calories, 1)
		target.Quantity = round(target.Quantity+item.Quantity, 2)
		if target.Macros != nil || item.Macros != nil {
			var a, b types.Macros
			if target.Macros != nil {
				a = *target.Macros
			}
			if item.Macros != nil {
				b = *item.Macros
			}
			sum := a.Add(b)
			target.Macros = &types.Macros{
				Protein: round(sum.Protein, 1),
				Carbs:   round(sum.Carbs, 1),
				Fat:     round(sum.Fat, 1),
			}
		}
	}
	return out
}

// Estimate normalizes foods and returns them with their total calories.
func Estimate(foods []types.FoodInput) ([]types.FoodItem, float64) {
	items := Normalize(foods)
	var total float64
	for _, item := range items {
		total += item.Calories
	}
	return items, round(total, 1)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
