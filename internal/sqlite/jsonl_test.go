// Tests for meal export and import.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

func TestExportImportRoundtrip(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)
	meals, err := src.Meals()
	require.NoError(t, err)

	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"rice", "tofu"} {
		_, err := meals.Insert(ctx, &types.Meal{
			Foods:     []types.FoodItem{{Name: name, Calories: 200}},
			Calories:  200,
			Points:    40,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "export", "meals.jsonl")
	n, err := src.ExportMeals(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)

	dst := setupBackend(t)
	added, err := dst.ImportMeals(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// Importing again adds nothing.
	added, err = dst.ImportMeals(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, added)

	want, err := meals.List(ctx)
	require.NoError(t, err)
	dstMeals, err := dst.Meals()
	require.NoError(t, err)
	got, err := dstMeals.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].MealName, got[i].MealName)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestImportSkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	path := filepath.Join(t.TempDir(), "meals.jsonl")
	content := `{"id":"m1","meal_name":"apple","calories":95,"created_at":"2026-10-10T08:00:00Z"}
not json at all

{"id":"m2","foods":"wrong type"}
{"meal_name":"pear","calories":100}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	added, err := b.ImportMeals(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestImportMissingFile(t *testing.T) {
	b := setupBackend(t)
	_, err := b.ImportMeals(context.Background(), filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestWriteJSONLLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	require.NoError(t, writeJSONL(path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.jsonl", entries[0].Name())
}
