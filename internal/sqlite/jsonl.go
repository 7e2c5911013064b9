// This file provides meal export and import as JSONL with atomic persistence.
package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// ExportMeals writes every meal, newest first, to path as one JSON object per
// line. Returns the number of meals written.
func (b *Backend) ExportMeals(ctx context.Context, path string) (int, error) {
	meals, err := b.meals.List(ctx)
	if err != nil {
		return 0, err
	}
	records := make([]json.RawMessage, 0, len(meals))
	for i := range meals {
		raw, err := json.Marshal(&meals[i])
		if err != nil {
			return 0, fmt.Errorf("encoding meal %s: %w", meals[i].ID, err)
		}
		records = append(records, raw)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportMeals reads meals from a JSONL file. Malformed lines and meals whose
// ID already exists are skipped. Returns the number of meals added.
func (b *Backend) ImportMeals(ctx context.Context, path string) (int, error) {
	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	userID := b.defaultUserID()
	before, err := b.meals.Count(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		var meal types.Meal
		if err := json.Unmarshal(rec, &meal); err != nil {
			continue
		}
		if meal.ID == "" {
			meal.ID = generateUUID()
		}
		if meal.Foods == nil {
			meal.Foods = []types.FoodItem{}
		}
		if err := insertMeal(ctx, db, &meal, userID, true); err != nil {
			return 0, err
		}
	}
	after, err := b.meals.Count(ctx)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
