// Package dashboard keeps the local view of meals, insights and profile in
// step with the server, and renders it to the terminal.
package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

const defaultLoadError = "Unable to load data"

// API is the part of the meal tracker client the dashboard needs.
type API interface {
	FetchMeals(ctx context.Context) (*types.MealList, error)
	FetchInsights(ctx context.Context) (*types.Insights, error)
	FetchProfile(ctx context.Context) (*types.ProfileResponse, error)
	CreateMeal(ctx context.Context, req types.MealRequest) (*types.CreatedMeal, error)
	UpdateProfile(ctx context.Context, height, weight *float64) (*types.ProfileResponse, error)
}

// ProfileView is the profile as shown on the dashboard.
type ProfileView struct {
	Height *float64
	Weight *float64
	BMI    *float64
}

// NewProfileView converts a profile response for display.
func NewProfileView(r *types.ProfileResponse) *ProfileView {
	return &ProfileView{Height: r.Profile.Height, Weight: r.Profile.Weight, BMI: r.BMI}
}

// State is a point-in-time copy of the dashboard.
type State struct {
	Meals    []types.Meal
	Insights *types.Insights
	Profile  *ProfileView
	Loading  bool
	Error    string
}

// Dashboard owns the dashboard state. It is safe for concurrent use.
type Dashboard struct {
	api API

	mu    sync.RWMutex
	state State
}

// New returns a Dashboard that has not loaded anything yet.
func New(api API) *Dashboard {
	return &Dashboard{api: api, state: State{Meals: []types.Meal{}, Loading: true}}
}

// Hydrate loads meals, insights and profile in parallel. State is replaced
// only when all three succeed; otherwise the error message is recorded and
// the previous state kept.
func (d *Dashboard) Hydrate(ctx context.Context) error {
	d.mu.Lock()
	d.state.Loading = true
	d.state.Error = ""
	d.mu.Unlock()

	var (
		meals    *types.MealList
		insights *types.Insights
		profile  *types.ProfileResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meals, err = d.api.FetchMeals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		insights, err = d.api.FetchInsights(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = d.api.FetchProfile(gctx)
		return err
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Loading = false
	if err != nil {
		d.state.Error = err.Error()
		if d.state.Error == "" {
			d.state.Error = defaultLoadError
		}
		return err
	}
	d.state.Meals = []types.Meal{}
	if meals != nil && meals.Meals != nil {
		d.state.Meals = meals.Meals
	}
	d.state.Insights = insights
	d.state.Profile = NewProfileView(profile)
	return nil
}

// SubmitMeal creates a meal, puts it at the top of the history and reloads
// insights. When the insights reload fails the meal stays in the history and
// the error is returned.
func (d *Dashboard) SubmitMeal(ctx context.Context, req types.MealRequest) (*types.CreatedMeal, error) {
	created, err := d.api.CreateMeal(ctx, req)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.state.Meals = append([]types.Meal{created.Meal}, d.state.Meals...)
	d.mu.Unlock()

	insights, err := d.api.FetchInsights(ctx)
	if err != nil {
		return created, err
	}
	d.mu.Lock()
	d.state.Insights = insights
	d.mu.Unlock()
	return created, nil
}

// SaveProfile stores height and weight and replaces the profile with the
// server's answer.
func (d *Dashboard) SaveProfile(ctx context.Context, height, weight *float64) (*ProfileView, error) {
	resp, err := d.api.UpdateProfile(ctx, height, weight)
	if err != nil {
		return nil, err
	}
	view := NewProfileView(resp)

	d.mu.Lock()
	d.state.Profile = view
	d.mu.Unlock()

	cp := *view
	return &cp, nil
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := d.state
	s.Meals = append([]types.Meal(nil), d.state.Meals...)
	if d.state.Profile != nil {
		p := *d.state.Profile
		s.Profile = &p
	}
	return s
}
