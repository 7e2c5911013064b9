package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// hydratedMsg reports the end of a Hydrate call.
type hydratedMsg struct {
	err error
}

// mealFormMsg carries a filled meal form back from the prompt.
type mealFormMsg struct {
	form *MealForm
	err  error
}

// profileFormMsg carries a filled profile form back from the prompt.
type profileFormMsg struct {
	form *ProfileForm
	err  error
}

// savedMsg reports the end of a meal or profile submission.
type savedMsg struct {
	notice string
	err    error
}

// Model is the bubbletea model of the interactive dashboard. It hydrates on
// start, reloads on "r", logs a meal on "l", edits the profile on "p" and
// quits on "q" or ctrl+c.
type Model struct {
	ctx     context.Context
	dash    *Dashboard
	loc     *time.Location
	spinner spinner.Model
	loading bool
	width   int
	notice  string

	promptMeal    func(*MealForm) error
	promptProfile func(*ProfileForm) error
}

// NewModel returns a Model for d.
func NewModel(ctx context.Context, d *Dashboard) Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))
	return Model{
		ctx:           ctx,
		dash:          d,
		loc:           time.Local,
		spinner:       s,
		loading:       true,
		promptMeal:    PromptMeal,
		promptProfile: PromptProfile,
	}
}

func (m Model) hydrate() tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{err: m.dash.Hydrate(m.ctx)}
	}
}

// formCommand runs a form with the terminal released by the dashboard.
type formCommand struct {
	run func() error
}

func (c formCommand) Run() error { return c.run() }

func (c formCommand) SetStdin(io.Reader)  {}
func (c formCommand) SetStdout(io.Writer) {}
func (c formCommand) SetStderr(io.Writer) {}

func (m Model) openMealForm() tea.Cmd {
	form := &MealForm{}
	prompt := m.promptMeal
	return tea.Exec(formCommand{run: func() error { return prompt(form) }}, func(err error) tea.Msg {
		return mealFormMsg{form: form, err: err}
	})
}

func (m Model) openProfileForm() tea.Cmd {
	form := NewProfileForm(m.dash.Snapshot().Profile)
	prompt := m.promptProfile
	return tea.Exec(formCommand{run: func() error { return prompt(&form) }}, func(err error) tea.Msg {
		return profileFormMsg{form: &form, err: err}
	})
}

func (m Model) submitMeal(f MealForm) tea.Cmd {
	return func() tea.Msg {
		req, err := f.Request()
		if err != nil {
			return savedMsg{err: err}
		}
		created, err := m.dash.SubmitMeal(m.ctx, req)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{notice: fmt.Sprintf("Logged %s (+%d points)", created.MealName, created.Points)}
	}
}

func (m Model) saveProfile(f ProfileForm) tea.Cmd {
	return func() tea.Msg {
		height, weight, err := f.Values()
		if err != nil {
			return savedMsg{err: err}
		}
		if _, err := m.dash.SaveProfile(m.ctx, height, weight); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{notice: "Profile saved"}
	}
}

// formDone turns a closed form into a submission, or a notice when the form
// was cancelled or failed.
func (m Model) formDone(err error, submit func() tea.Cmd) (Model, tea.Cmd) {
	switch {
	case errors.Is(err, ErrCancelled):
		m.notice = ""
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, submit())
}

// Init starts the spinner and the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.hydrate())
}

// Update handles key presses, window resizes and load results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.hydrate())
		case "l":
			if m.loading {
				return m, nil
			}
			return m, m.openMealForm()
		case "p":
			if m.loading {
				return m, nil
			}
			return m, m.openProfileForm()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case mealFormMsg:
		return m.formDone(msg.err, func() tea.Cmd { return m.submitMeal(*msg.form) })
	case profileFormMsg:
		return m.formDone(msg.err, func() tea.Cmd { return m.saveProfile(*msg.form) })
	case savedMsg:
		m.loading = false
		m.notice = msg.notice
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
	case hydratedMsg:
		m.loading = false
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	s := m.dash.Snapshot()
	s.Loading = m.loading
	view := RenderDashboard(s, m.loc)
	footer := subtitleStyle.Render("r refresh · l log meal · p profile · q quit")
	if m.notice != "" {
		footer = m.notice + "  " + footer
	}
	if m.loading {
		footer = m.spinner.View() + " " + footer
	}
	out := lipgloss.JoinVertical(lipgloss.Left, view, "", footer)
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

// Run shows the interactive dashboard until the user quits or ctx ends.
func Run(ctx context.Context, d *Dashboard) error {
	p := tea.NewProgram(NewModel(ctx, d), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
