package gamification

import (
	"math"
	"sort"
	"time"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const (
	window     = 7 * 24 * time.Hour
	dateLayout = time.DateOnly
)

// mealTime returns the meal's creation time, or now when it is unset.
func mealTime(m types.Meal, now time.Time) time.Time {
	if m.CreatedAt.IsZero() {
		return now
	}
	return m.CreatedAt
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// inWindow returns the meals logged during the seven days before now.
func inWindow(meals []types.Meal, now time.Time) []types.Meal {
	cutoff := now.Add(-window)
	var out []types.Meal
	for _, m := range meals {
		if !mealTime(m, now).Before(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

type dayTotal struct {
	day      time.Time
	calories float64
}

// dailyTotals sums calories per UTC day, preserving first-seen order.
func dailyTotals(meals []types.Meal, now time.Time) []dayTotal {
	index := make(map[time.Time]int)
	var totals []dayTotal
	for _, m := range meals {
		d := day(mealTime(m, now))
		i, ok := index[d]
		if !ok {
			index[d] = len(totals)
			totals = append(totals, dayTotal{day: d})
			i = len(totals) - 1
		}
		totals[i].calories += m.Calories
	}
	return totals
}

// Weekly summarises the meals of the last seven days.
func Weekly(meals []types.Meal, now time.Time) types.WeeklySummary {
	recent := inWindow(meals, now)

	var total float64
	for _, m := range recent {
		total += m.Calories
	}
	var avg float64
	if len(recent) > 0 {
		avg = total / float64(len(recent))
	}

	totals := dailyTotals(recent, now)
	summary := types.WeeklySummary{
		TotalCalories:   round1(total),
		AverageCalories: round1(avg),
		Count:           len(recent),
		CaloriesByDay:   make([]types.DayTotal, 0, len(totals)),
	}

	if len(totals) > 0 {
		best, worst := totals[0], totals[0]
		for _, t := range totals[1:] {
			if t.calories < best.calories {
				best = t
			}
			if t.calories > worst.calories {
				worst = t
			}
		}
		summary.BestDay = toDayTotal(best)
		summary.IndulgentDay = toDayTotal(worst)
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].day.Before(totals[j].day) })
	for _, t := range totals {
		summary.CaloriesByDay = append(summary.CaloriesByDay, toDayTotal(t))
	}
	return summary
}

func toDayTotal(t dayTotal) types.DayTotal {
	date := t.day.Format(dateLayout)
	cal := round1(t.calories)
	return types.DayTotal{Date: &date, Calories: &cal}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
