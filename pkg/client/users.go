package client

import (
	"context"
	"net/http"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// FetchProfile returns the stored profile and its BMI.
func (c *Client) FetchProfile(ctx context.Context) (*types.ProfileResponse, error) {
	var out types.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sets height and weight; a nil value keeps the stored one.
func (c *Client) UpdateProfile(ctx context.Context, height, weight *float64) (*types.ProfileResponse, error) {
	var out types.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", types.NewProfileUpdate(height, weight), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComputeBMI asks the server for the BMI of weight (kg) and height (cm).
func (c *Client) ComputeBMI(ctx context.Context, weight, height float64) (float64, error) {
	var out types.BMIResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/bmi", types.NewBMIRequest(weight, height), &out); err != nil {
		return 0, err
	}
	return out.BMI, nil
}
