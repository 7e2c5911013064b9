package gamification

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const maxTips = 3

// Achievements evaluates every badge against the meal history.
func Achievements(meals []types.Meal, weekly types.WeeklySummary, now time.Time) []types.Achievement {
	streaks := Streaks(meals, now)
	variety := weeklyVariety(meals, now)
	logged := 0
	if len(meals) > 0 {
		logged = 1
	}

	return []types.Achievement{
		{
			ID:       "first-log",
			Label:    "First Meal Logged",
			Achieved: len(meals) > 0,
			Details:  "Unlocked as soon as you record your first meal.",
			Progress: fmt.Sprintf("%d/1", logged),
		},
		{
			ID:       "weekly-habit",
			Label:    "3-Day Streak",
			Achieved: streaks.Longest >= 3,
			Details:  "Log meals three days in a row to prove your consistency.",
			Progress: fmt.Sprintf("%d/3", min(streaks.Longest, 3)),
		},
		{
			ID:       "weekly-hero",
			Label:    "Weekly Hero",
			Achieved: weekly.Count >= 5,
			Details:  "Capture five meals this week to stay mindful.",
			Progress: fmt.Sprintf("%d/5", min(weekly.Count, 5)),
		},
		{
			ID:       "balanced-week",
			Label:    "Balanced Week",
			Achieved: weekly.AverageCalories >= 350 && weekly.AverageCalories <= 700 && weekly.Count >= 3,
			Details:  "Keep your weekly average calories in the healthy sweet spot.",
			Progress: fmt.Sprintf("%d avg kcal", int(weekly.AverageCalories)),
		},
		{
			ID:       "colorful-plate",
			Label:    "Colorful Plate",
			Achieved: variety >= 5,
			Details:  "Try at least five unique foods in the last week for balanced nutrition.",
			Progress: fmt.Sprintf("%d/5 foods", min(variety, 5)),
		},
		{
			ID:       "streak-sprinter",
			Label:    "7-Day Sprinter",
			Achieved: streaks.Longest >= 7,
			Details:  "Maintain a week-long streak of mindful eating logs.",
			Progress: fmt.Sprintf("%d/7 days", min(streaks.Longest, 7)),
		},
	}
}

// Tips returns up to three coaching suggestions for the user.
func Tips(meals []types.Meal, weekly types.WeeklySummary, now time.Time) []string {
	var tips []string
	if Streaks(meals, now).Current < 3 {
		tips = append(tips, "Log meals three days in a row to unlock the Weekly Habit badge.")
	}
	if weekly.Count < 5 {
		tips = append(tips, "Aim for five meals this week to build awareness through repetition.")
	}
	if weekly.AverageCalories > 750 {
		tips = append(tips, "Your averages are trending high. Try swapping in a lighter lunch or scaling back portions.")
	}
	if weekly.AverageCalories > 0 && weekly.AverageCalories < 350 {
		tips = append(tips, "Average calories look low. Make sure you are fueling enough for your activity.")
	}
	if weeklyVariety(meals, now) < 5 {
		tips = append(tips, "Add more variety: colorful fruits and veggies can boost micronutrients.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Great balance! Keep up the streak and consider setting a macro goal next.")
	}
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

// weeklyVariety counts distinct food names logged in the last seven days.
func weeklyVariety(meals []types.Meal, now time.Time) int {
	names := make(map[string]struct{})
	for _, m := range inWindow(meals, now) {
		for _, f := range m.Foods {
			if f.Name != "" {
				names[strings.ToLower(f.Name)] = struct{}{}
			}
		}
	}
	return len(names)
}

// BuildInsights assembles the insights payload for a meal history.
// points and total are the lifetime totals reported by the store.
func BuildInsights(meals []types.Meal, points, total int, now time.Time) types.Insights {
	weekly := Weekly(meals, now)
	return types.Insights{
		Weekly:          weekly,
		Achievements:    Achievements(meals, weekly, now),
		Points:          points,
		TotalMeals:      total,
		Streaks:         Streaks(meals, now),
		Recommendations: Tips(meals, weekly, now),
	}
}
