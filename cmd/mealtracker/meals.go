// Meal commands: list, log, get, delete, export and import.
package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealtracker/internal/dashboard"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

var mealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "List, log and manage meals",
}

var mealsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged meals, newest first",
	Args:  cobra.NoArgs,
	RunE:  runMealsList,
}

var mealsLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a meal",
	Long: `Log sends a meal to the API. The server estimates calories from the
foods or the photo unless --calories overrides it.

Example:
  mealtracker meals log --foods "2 eggs, toast" --mood Energized
  mealtracker meals log --photo ./lunch.jpg --calories 650
  mealtracker meals log --interactive`,
	Args: cobra.NoArgs,
	RunE: runMealsLog,
}

var mealsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one meal",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealsGet,
}

var mealsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealsDelete,
}

var mealsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export every meal from the local store to a JSONL file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealsExport,
}

var mealsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import meals from a JSONL file into the local store",
	Long: `Import reads one meal per line. Meals whose id already exists are
skipped, so importing the same file twice is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: runMealsImport,
}

var (
	logFoods       string
	logCalories    string
	logMood        string
	logNotes       string
	logPhotoURL    string
	logPhotoPath   string
	logInteractive bool
)

func init() {
	f := mealsLogCmd.Flags()
	f.StringVar(&logFoods, "foods", "", "comma separated list of foods")
	f.StringVar(&logCalories, "calories", "", "calorie override")
	f.StringVar(&logMood, "mood", "", "mood: Energized, Balanced, Hungry or Sleepy")
	f.StringVar(&logNotes, "notes", "", "free-form notes")
	f.StringVar(&logPhotoURL, "photo-url", "", "URL of a meal photo")
	f.StringVar(&logPhotoPath, "photo", "", "path to a meal photo to attach")
	f.BoolVarP(&logInteractive, "interactive", "i", false, "fill in the meal with a form")

	mealsCmd.AddCommand(mealsListCmd)
	mealsCmd.AddCommand(mealsLogCmd)
	mealsCmd.AddCommand(mealsGetCmd)
	mealsCmd.AddCommand(mealsDeleteCmd)
	mealsCmd.AddCommand(mealsExportCmd)
	mealsCmd.AddCommand(mealsImportCmd)
}

func runMealsList(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	list, err := c.FetchMeals(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch meals: %w", err)
	}
	return printOutput(cmd, list, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, dashboard.RenderMealHistory(list.Meals, time.Local))
		return err
	})
}

func runMealsLog(cmd *cobra.Command, args []string) error {
	form := dashboard.MealForm{
		Foods:    logFoods,
		Calories: logCalories,
		Mood:     logMood,
		Notes:    logNotes,
		PhotoURL: logPhotoURL,
	}
	if logPhotoPath != "" {
		data, err := dashboard.PhotoDataURL(logPhotoPath)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		form.PhotoData = data
	}
	if logInteractive {
		if err := dashboard.PromptMeal(&form); err != nil {
			return err
		}
	}

	req, err := form.Request()
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	created, err := c.CreateMeal(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return printOutput(cmd, created, func(w io.Writer) error {
		fmt.Fprintf(w, "Logged %s: %s kcal, +%d points\n",
			created.MealName, formatCalories(created.Calories), created.Points)
		if created.CalorieExplanation != "" {
			fmt.Fprintln(w, created.CalorieExplanation)
		}
		_, err := fmt.Fprintln(w, "ID:", created.ID)
		return err
	})
}

func runMealsGet(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	meal, err := c.GetMeal(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get meal: %w", err)
	}
	return printOutput(cmd, meal, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, dashboard.RenderMealHistory([]types.Meal{*meal}, time.Local))
		return err
	})
}

func runMealsDelete(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	if err := c.DeleteMeal(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	result := map[string]string{"deleted": args[0]}
	return printOutput(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "Deleted meal", args[0])
		return err
	})
}

func runMealsExport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	n, err := backend.ExportMeals(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("export meals: %w", err)
	}
	result := map[string]any{"file": args[0], "exported": n}
	return printOutput(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Exported %d meals to %s\n", n, args[0])
		return err
	})
}

func runMealsImport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	n, err := backend.ImportMeals(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import meals: %w", err)
	}
	result := map[string]any{"file": args[0], "imported": n}
	return printOutput(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Imported %d meals from %s\n", n, args[0])
		return err
	})
}
