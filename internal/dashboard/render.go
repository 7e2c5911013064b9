package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/mealtracker/internal/bmi"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Status pill texts.
const (
	StatusLoading = "Loading data…"
	StatusLive    = "Live sync enabled"
)

const (
	colorPrimary = "#42b883"
	colorMuted   = "#8b949e"
	colorError   = "#ff6b6b"
	colorBorder  = "#30363d"
	colorLocked  = "#6e7681"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorPrimary))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	pillStyle     = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#0d1117")).Background(lipgloss.Color(colorPrimary))
	loadingPillStyle = pillStyle.Background(lipgloss.Color("#ffb347"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	cardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorBorder)).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	unlockedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorPrimary))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorLocked))
)

func card(title, subtitle string, body ...string) string {
	parts := []string{titleStyle.Render(title), subtitleStyle.Render(subtitle), ""}
	parts = append(parts, body...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// RenderHeader renders the title and the sync status pill.
func RenderHeader(loading bool) string {
	pill := pillStyle.Render(StatusLive)
	if loading {
		pill = loadingPillStyle.Render(StatusLoading)
	}
	title := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Meal Tracker"),
		subtitleStyle.Render("Capture meals, estimate calories, compute BMI, and earn achievements."),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", pill)
}

// RenderError renders an error line, or "" when msg is empty.
func RenderError(msg string) string {
	if msg == "" {
		return ""
	}
	return errorStyle.Render(msg)
}

// RenderMealHistory renders meals newest first, with times shown in loc.
func RenderMealHistory(meals []types.Meal, loc *time.Location) string {
	if len(meals) == 0 {
		return card("Meal History", "Logged meals will appear here for quick analysis.",
			subtitleStyle.Render("No meals tracked yet."))
	}
	if loc == nil {
		loc = time.Local
	}

	entries := make([]string, 0, len(meals))
	for _, m := range meals {
		var b strings.Builder
		fmt.Fprintf(&b, "%s  %s\n", lipgloss.NewStyle().Bold(true).Render("Meal #"+shortID(m.ID)), labelStyle.Render(formatTime(m.CreatedAt, loc)))

		meta := []string{formatNumber(m.Calories) + " kcal", fmt.Sprintf("%d pts", m.Points)}
		if m.Mood != nil && *m.Mood != "" {
			meta = append(meta, *m.Mood)
		}
		b.WriteString(strings.Join(meta, " · "))

		for _, f := range m.Foods {
			b.WriteString("\n  • " + f.Name)
			if f.Calories != 0 {
				b.WriteString(labelStyle.Render(" " + formatNumber(f.Calories) + " kcal"))
			}
		}
		if m.Notes != nil && *m.Notes != "" {
			b.WriteString("\n" + subtitleStyle.Italic(true).Render(*m.Notes))
		}
		if m.Photo != nil && *m.Photo != "" {
			b.WriteString("\n" + labelStyle.Render("photo: "+photoLabel(*m.Photo)))
		}
		entries = append(entries, b.String())
	}
	return card("Meal History", "Review what you ate and how many points you earned.",
		strings.Join(entries, "\n\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// photoLabel keeps inline data URLs from flooding the terminal.
func photoLabel(ref string) string {
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		if mimeType, _, ok := strings.Cut(rest, ";"); ok {
			return "attached " + mimeType
		}
	}
	return ref
}

// RenderAchievements renders the insights panel. A nil insights renders
// empty totals.
func RenderAchievements(ins *types.Insights) string {
	if ins == nil {
		ins = &types.Insights{}
	}
	w := ins.Weekly

	tiles := []struct{ label, value string }{
		{"Weekly Meals", fmt.Sprint(w.Count)},
		{"Weekly Calories", formatNumber(w.TotalCalories)},
		{"Avg Calories", formatNumber(w.AverageCalories)},
		{"Lifetime Points", fmt.Sprint(ins.Points)},
		{"Total Meals", fmt.Sprint(ins.TotalMeals)},
		{"Current Streak", fmt.Sprintf("%dd", ins.Streaks.Current)},
		{"Longest Streak", fmt.Sprintf("%dd", ins.Streaks.Longest)},
	}
	tileLines := make([]string, 0, len(tiles))
	for _, t := range tiles {
		tileLines = append(tileLines, labelStyle.Width(16).Render(t.label)+" "+lipgloss.NewStyle().Bold(true).Render(t.value))
	}

	body := []string{
		strings.Join(tileLines, "\n"),
		"",
		labelStyle.Render("Lightest Day  ") + formatDayStat(w.BestDay),
		labelStyle.Render("Indulgent Day ") + formatDayStat(w.IndulgentDay),
	}

	var daily []string
	for _, d := range w.CaloriesByDay {
		if d.Date == nil {
			continue
		}
		daily = append(daily, fmt.Sprintf("  %s %s", weekday(*d.Date), formatOptionalZero(d.Calories)))
	}
	if len(daily) > 0 {
		body = append(body, "", titleStyle.Render("Daily calories"))
		body = append(body, daily...)
	}

	if len(ins.Achievements) > 0 {
		body = append(body, "")
		for _, a := range ins.Achievements {
			status := lockedStyle.Render("Locked")
			if a.Achieved {
				status = unlockedStyle.Render("Unlocked")
			}
			line := fmt.Sprintf("%s  %s", status, lipgloss.NewStyle().Bold(true).Render(a.Label))
			if a.Progress != "" {
				line += labelStyle.Render(" (" + a.Progress + ")")
			}
			body = append(body, line, "    "+subtitleStyle.Render(a.Details))
		}
	}

	if len(ins.Recommendations) > 0 {
		body = append(body, "", titleStyle.Render("Coach tips"))
		for _, tip := range ins.Recommendations {
			body = append(body, "  • "+tip)
		}
	}
	return card("Insights & Gamification", "Points, streaks, and achievements keep you motivated.", body...)
}

func formatDayStat(d types.DayTotal) string {
	if d.Date == nil {
		return "—"
	}
	return weekday(*d.Date) + " · " + formatOptionalZero(d.Calories) + " kcal"
}

func formatOptionalZero(v *float64) string {
	if v == nil {
		return "0"
	}
	return formatNumber(*v)
}

// weekday returns the short weekday name of a YYYY-MM-DD date, or the input
// when it does not parse.
func weekday(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon")
}

// RenderProfile renders the BMI and profile card.
func RenderProfile(p *ProfileView) string {
	if p == nil {
		p = &ProfileView{}
	}
	body := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Height (cm)"), orDash(p.Height)),
		fmt.Sprintf("%s %s", labelStyle.Render("Weight (kg)"), orDash(p.Weight)),
	}
	if p.BMI != nil && *p.BMI != 0 {
		r := bmi.Classify(*p.BMI)
		badge := lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#0d1117")).Background(lipgloss.Color(r.Color)).Render(r.Label)
		body = append(body, "", fmt.Sprintf("Current BMI: %s  %s", formatNumber(*p.BMI), badge))
	}
	return card("BMI & Profile", "Store your stats to unlock personalized guidance.", body...)
}

func orDash(v *float64) string {
	if v == nil {
		return "—"
	}
	return formatNumber(*v)
}

// RenderDashboard renders the whole dashboard for a state snapshot.
func RenderDashboard(s State, loc *time.Location) string {
	parts := []string{RenderHeader(s.Loading)}
	if e := RenderError(s.Error); e != "" {
		parts = append(parts, e)
	}
	parts = append(parts,
		RenderProfile(s.Profile),
		RenderMealHistory(s.Meals, loc),
		RenderAchievements(s.Insights),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
