package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Compile-time interface check: mealsTable must implement MealTable.
var _ types.MealTable = (*mealsTable)(nil)

const (
	// timeLayout is fixed-width so that created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"

	defaultMealName = "Meal"

	mealColumns = "meal_id, user_id, meal_name, calories, points, mood, notes, photo_url, calorie_method, calorie_confidence, created_at, payload"
)

// legacyTimeLayouts are accepted when reading rows written by other tools.
var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

// mealsTable stores meals as summary columns plus the full meal JSON in the
// payload column.
type mealsTable struct {
	backend *Backend
}

// Insert persists a meal, filling in the ID and creation time when unset.
func (mt *mealsTable) Insert(ctx context.Context, meal *types.Meal) (string, error) {
	if meal == nil {
		return "", types.ErrInvalidData
	}
	db, err := mt.backend.conn()
	if err != nil {
		return "", err
	}
	if meal.ID == "" {
		meal.ID = generateUUID()
	}
	if err := insertMeal(ctx, db, meal, mt.backend.defaultUserID(), false); err != nil {
		return "", err
	}
	return meal.ID, nil
}

// insertMeal writes one meal row, owned by userID when the meal has no user.
// With skipExisting a conflicting ID is ignored instead of failing.
func insertMeal(ctx context.Context, db *sql.DB, meal *types.Meal, userID string, skipExisting bool) error {
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = time.Now().UTC()
	}
	meal.CreatedAt = meal.CreatedAt.UTC()
	if meal.UserID == "" {
		meal.UserID = userID
	}
	if meal.MealName == "" {
		meal.MealName = defaultMealName
		if len(meal.Foods) > 0 && meal.Foods[0].Name != "" {
			meal.MealName = meal.Foods[0].Name
		}
	}

	payload, err := json.Marshal(meal)
	if err != nil {
		return fmt.Errorf("encoding meal payload: %w", err)
	}

	verb := "INSERT"
	if skipExisting {
		verb = "INSERT OR IGNORE"
	}
	_, err = db.ExecContext(ctx,
		verb+" INTO meals ("+mealColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		meal.ID, meal.UserID, meal.MealName, int64(math.Round(meal.Calories)), meal.Points,
		meal.Mood, meal.Notes, meal.Photo, meal.CalorieMethod, meal.CalorieConfidence,
		meal.CreatedAt.Format(timeLayout), string(payload),
	)
	if err != nil {
		return fmt.Errorf("persisting meal: %w", err)
	}
	return nil
}

// Get retrieves a meal by ID.
func (mt *mealsTable) Get(ctx context.Context, id string) (*types.Meal, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := mt.backend.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+mealColumns+" FROM meals WHERE meal_id = ?", id)
	meal, err := hydrateMeal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting meal %s: %w", id, err)
	}
	return meal, nil
}

// List returns every meal, newest first.
func (mt *mealsTable) List(ctx context.Context) ([]types.Meal, error) {
	db, err := mt.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+mealColumns+" FROM meals ORDER BY created_at DESC, meal_id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying meals: %w", err)
	}
	defer rows.Close()

	meals := []types.Meal{}
	for rows.Next() {
		meal, err := hydrateMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating meal: %w", err)
		}
		meals = append(meals, *meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meals: %w", err)
	}
	return meals, nil
}

// Delete removes a meal by ID.
func (mt *mealsTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := mt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM meals WHERE meal_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Count returns the number of stored meals.
func (mt *mealsTable) Count(ctx context.Context) (int, error) {
	db, err := mt.backend.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM meals").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting meals: %w", err)
	}
	return n, nil
}

// TotalPoints returns the sum of points across all meals.
func (mt *mealsTable) TotalPoints(ctx context.Context) (int, error) {
	db, err := mt.backend.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(SUM(points), 0) FROM meals").Scan(&n); err != nil {
		return 0, fmt.Errorf("summing points: %w", err)
	}
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// mealRow mirrors the meals table columns.
type mealRow struct {
	id, userID, name   string
	calories           int64
	points             int
	mood, notes, photo sql.NullString
	method             string
	confidence         float64
	createdAt          string
	payload            sql.NullString
}

func hydrateMeal(s scanner) (*types.Meal, error) {
	var r mealRow
	if err := s.Scan(&r.id, &r.userID, &r.name, &r.calories, &r.points, &r.mood, &r.notes,
		&r.photo, &r.method, &r.confidence, &r.createdAt, &r.payload); err != nil {
		return nil, err
	}
	return normalizeRow(r), nil
}

// normalizeRow returns the meal stored in the payload column when it holds a
// JSON object, and otherwise rebuilds the meal from the summary columns.
func normalizeRow(r mealRow) *types.Meal {
	if r.payload.Valid {
		raw := bytes.TrimSpace([]byte(r.payload.String))
		if len(raw) > 0 && raw[0] == '{' {
			var meal types.Meal
			if err := json.Unmarshal(raw, &meal); err == nil {
				if meal.ID == "" {
					meal.ID = r.id
				}
				if meal.CreatedAt.IsZero() {
					meal.CreatedAt = parseTime(r.createdAt)
				}
				if meal.Foods == nil {
					meal.Foods = []types.FoodItem{}
				}
				return &meal
			}
		}
	}

	meal := &types.Meal{
		ID:                r.id,
		Foods:             []types.FoodItem{},
		Calories:          float64(r.calories),
		Points:            r.points,
		Mood:              nullable(r.mood),
		Notes:             nullable(r.notes),
		Photo:             nullable(r.photo),
		CalorieMethod:     r.method,
		CalorieConfidence: r.confidence,
		CreatedAt:         parseTime(r.createdAt),
		MealName:          r.name,
		UserID:            r.userID,
	}
	if meal.CalorieMethod == "" {
		meal.CalorieMethod = types.MethodManual
	}
	if r.name != "" {
		meal.Foods = append(meal.Foods, types.FoodItem{Name: r.name, Calories: float64(r.calories)})
	}
	return meal
}

// parseTime returns the zero time for values no known layout accepts.
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
