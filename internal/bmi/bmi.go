// Package bmi computes and classifies body mass index values.
package bmi

import (
	"errors"
	"math"
)

var (
	ErrHeightRequired    = errors.New("Height and weight are required")
	ErrHeightNotPositive = errors.New("Height must be greater than zero")
)

// Calc returns weight / height² for a weight in kilograms and a height in
// centimetres, rounded to two decimals.
func Calc(weightKg, heightCm *float64) (float64, error) {
	if weightKg == nil || heightCm == nil {
		return 0, ErrHeightRequired
	}
	m := *heightCm / 100
	if m <= 0 {
		return 0, ErrHeightNotPositive
	}
	return Round(*weightKg/(m*m), 2), nil
}

// Range is a named BMI band with its upper bound and display colour.
type Range struct {
	Label string
	Max   float64
	Color string
}

// Ranges lists the BMI bands in ascending order.
var Ranges = []Range{
	{Label: "Underweight", Max: 18.5, Color: "#3778c2"},
	{Label: "Healthy", Max: 24.9, Color: "#42b883"},
	{Label: "Overweight", Max: 29.9, Color: "#ffb347"},
	{Label: "Obese", Max: math.Inf(1), Color: "#ff6b6b"},
}

// Classify returns the first band whose upper bound is at least v.
func Classify(v float64) Range {
	for _, r := range Ranges {
		if v <= r.Max {
			return r
		}
	}
	return Ranges[len(Ranges)-1]
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
