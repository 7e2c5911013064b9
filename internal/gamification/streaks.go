package gamification

import (
	"sort"
	"time"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Streaks reports the current and longest runs of consecutive days with at
// least one logged meal. The current run may end yesterday.
func Streaks(meals []types.Meal, now time.Time) types.Streaks {
	return types.Streaks{Current: currentStreak(meals, now), Longest: longestStreak(meals, now)}
}

func longestStreak(meals []types.Meal, now time.Time) int {
	if len(meals) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(meals))
	for _, m := range meals {
		days = append(days, day(mealTime(m, now)))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	streak, longest := 1, 1
	for i := 1; i < len(days); i++ {
		gap := days[i].Sub(days[i-1])
		switch {
		case gap == 0:
			continue
		case gap <= 24*time.Hour:
			streak++
		default:
			streak = 1
		}
		longest = max(longest, streak)
	}
	return longest
}

func currentStreak(meals []types.Meal, now time.Time) int {
	if len(meals) == 0 {
		return 0
	}
	logged := make(map[time.Time]bool, len(meals))
	for _, m := range meals {
		logged[day(mealTime(m, now))] = true
	}

	d := day(now)
	if !logged[d] && logged[d.AddDate(0, 0, -1)] {
		d = d.AddDate(0, 0, -1)
	}
	streak := 0
	for logged[d] {
		streak++
		d = d.AddDate(0, 0, -1)
	}
	return streak
}
