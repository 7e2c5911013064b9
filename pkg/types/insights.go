package types

// DayTotal is a calendar day and its calorie total. Both fields are null
// when there is no data.
type DayTotal struct {
	Date     *string  `json:"date"`
	Calories *float64 `json:"calories"`
}

// WeeklySummary aggregates the meals of the last seven days.
type WeeklySummary struct {
	TotalCalories   float64    `json:"totalCalories"`
	AverageCalories float64    `json:"averageCalories"`
	Count           int        `json:"count"`
	CaloriesByDay   []DayTotal `json:"caloriesByDay"`
	BestDay         DayTotal   `json:"bestDay"`
	IndulgentDay    DayTotal   `json:"indulgentDay"`
}

// Achievement is a gamification badge and the user's progress towards it.
type Achievement struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Achieved bool   `json:"achieved"`
	Details  string `json:"details"`
	Progress string `json:"progress"`
}

// Streaks reports consecutive logging days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Insights is the response body of the insights endpoint.
type Insights struct {
	Weekly          WeeklySummary `json:"weekly"`
	Achievements    []Achievement `json:"achievements"`
	Points          int           `json:"points"`
	TotalMeals      int           `json:"totalMeals"`
	Streaks         Streaks       `json:"streaks"`
	Recommendations []string      `json:"recommendations"`
}
