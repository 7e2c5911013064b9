package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// FetchMeals lists every meal, newest first.
func (c *Client) FetchMeals(ctx context.Context) (*types.MealList, error) {
	var out types.MealList
	if err := c.do(ctx, http.MethodGet, "/meals", nil, &out); err != nil {
		return nil, err
	}
	if out.Meals == nil {
		out.Meals = []types.Meal{}
	}
	return &out, nil
}

// CreateMeal logs a meal and returns it with the calorie explanation.
func (c *Client) CreateMeal(ctx context.Context, req types.MealRequest) (*types.CreatedMeal, error) {
	var out types.CreatedMeal
	if err := c.do(ctx, http.MethodPost, "/meals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMeal returns one meal.
func (c *Client) GetMeal(ctx context.Context, id string) (*types.Meal, error) {
	var out types.Meal
	if err := c.do(ctx, http.MethodGet, "/api/meals/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeal removes one meal.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/meals/"+url.PathEscape(id), nil, nil)
}

// FetchInsights returns the weekly summary, achievements, streaks and tips.
func (c *Client) FetchInsights(ctx context.Context) (*types.Insights, error) {
	var out types.Insights
	if err := c.do(ctx, http.MethodGet, "/api/meals/insights", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSummary returns the weekly summary alone.
func (c *Client) FetchSummary(ctx context.Context) (*types.WeeklySummary, error) {
	var out types.WeeklySummary
	if err := c.do(ctx, http.MethodGet, "/api/meals/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
