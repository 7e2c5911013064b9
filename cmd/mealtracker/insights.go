// Insight commands: the full insights report and the weekly summary.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealtracker/internal/dashboard"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const markdownWidth = 80

var flagMarkdown bool

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show weekly totals, achievements, streaks and coach tips",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the last seven days of calories",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	insightsCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "render the report as formatted markdown")
}

func runInsights(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ins, err := c.FetchInsights(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch insights: %w", err)
	}
	return printOutput(cmd, ins, func(w io.Writer) error {
		if flagMarkdown {
			out, err := dashboard.RenderMarkdown(dashboard.InsightsMarkdown(ins), markdownWidth)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(w, out)
			return err
		}
		_, err := fmt.Fprintln(w, dashboard.RenderAchievements(ins))
		return err
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	sum, err := c.FetchSummary(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch summary: %w", err)
	}
	return printOutput(cmd, sum, func(w io.Writer) error {
		return writeSummary(w, sum)
	})
}

// writeSummary prints the weekly totals and one line per day.
func writeSummary(w io.Writer, sum *types.WeeklySummary) error {
	fmt.Fprintf(w, "Meals this week:  %d\n", sum.Count)
	fmt.Fprintf(w, "Total calories:   %s\n", formatCalories(sum.TotalCalories))
	fmt.Fprintf(w, "Daily average:    %s\n", formatCalories(sum.AverageCalories))
	fmt.Fprintf(w, "Lightest day:     %s\n", formatDay(sum.BestDay))
	fmt.Fprintf(w, "Indulgent day:    %s\n", formatDay(sum.IndulgentDay))
	for _, d := range sum.CaloriesByDay {
		if _, err := fmt.Fprintf(w, "  %s  %s kcal\n", deref(d.Date), formatCalories(derefFloat(d.Calories))); err != nil {
			return err
		}
	}
	return nil
}

func formatDay(d types.DayTotal) string {
	if d.Date == nil || d.Calories == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s kcal)", *d.Date, formatCalories(*d.Calories))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
