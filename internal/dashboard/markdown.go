package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// InsightsMarkdown writes insights as a markdown report.
func InsightsMarkdown(ins *types.Insights) string {
	if ins == nil {
		ins = &types.Insights{}
	}
	w := ins.Weekly

	var b strings.Builder
	b.WriteString("# Weekly insights\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Weekly meals | %d |\n", w.Count)
	fmt.Fprintf(&b, "| Weekly calories | %s |\n", formatNumber(w.TotalCalories))
	fmt.Fprintf(&b, "| Average calories | %s |\n", formatNumber(w.AverageCalories))
	fmt.Fprintf(&b, "| Lifetime points | %d |\n", ins.Points)
	fmt.Fprintf(&b, "| Total meals | %d |\n", ins.TotalMeals)
	fmt.Fprintf(&b, "| Current streak | %dd |\n", ins.Streaks.Current)
	fmt.Fprintf(&b, "| Longest streak | %dd |\n", ins.Streaks.Longest)
	fmt.Fprintf(&b, "\n**Lightest day:** %s  \n**Indulgent day:** %s\n", formatDayStat(w.BestDay), formatDayStat(w.IndulgentDay))

	if len(w.CaloriesByDay) > 0 {
		b.WriteString("\n## Daily calories\n\n")
		for _, d := range w.CaloriesByDay {
			if d.Date == nil {
				continue
			}
			fmt.Fprintf(&b, "- %s (%s): %s kcal\n", weekday(*d.Date), *d.Date, formatOptionalZero(d.Calories))
		}
	}

	if len(ins.Achievements) > 0 {
		b.WriteString("\n## Achievements\n\n")
		for _, a := range ins.Achievements {
			mark := " "
			if a.Achieved {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] **%s** (%s): %s\n", mark, a.Label, a.Progress, a.Details)
		}
	}

	if len(ins.Recommendations) > 0 {
		b.WriteString("\n## Coach tips\n\n")
		for _, tip := range ins.Recommendations {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	return b.String()
}

// RenderMarkdown renders markdown for the terminal, wrapped at width.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
