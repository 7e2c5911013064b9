package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodInputUnmarshal(t *testing.T) {
	var foods []FoodInput
	body := `["2 eggs", {"name": "rice", "servings": 2}, {"name": "tofu", "calories": 180, "macros": {"protein": 20, "carbs": 4, "fat": 9}}]`
	require.NoError(t, json.Unmarshal([]byte(body), &foods))
	require.Len(t, foods, 3)

	assert.True(t, foods[0].Text)
	assert.Equal(t, "2 eggs", foods[0].Label)

	assert.False(t, foods[1].Text)
	assert.Equal(t, "rice", foods[1].Name)
	assert.Equal(t, 2.0, foods[1].Servings)
	assert.Nil(t, foods[1].Calories)

	require.NotNil(t, foods[2].Calories)
	assert.Equal(t, 180.0, *foods[2].Calories)
	assert.Equal(t, 20.0, foods[2].Macros.Protein)
}

func TestFoodInputNumericStrings(t *testing.T) {
	var foods []FoodInput
	body := `[{"name": "salad", "calories": "300"}, {"name": "rice", "quantity": " 2 "}, {"name": "oats", "servings": "1.5", "calories": "lots"}]`
	require.NoError(t, json.Unmarshal([]byte(body), &foods))
	require.Len(t, foods, 3)

	require.NotNil(t, foods[0].Calories)
	assert.Equal(t, 300.0, *foods[0].Calories)
	assert.Equal(t, 2.0, foods[1].Quantity)
	assert.Equal(t, 1.5, foods[2].Servings)
	assert.Nil(t, foods[2].Calories, "non-numeric calories count as absent")
}

func TestParseNumberString(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "42", want: 42},
		{in: " 1.5 ", want: 1.5},
		{in: "-3", want: -3},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "+Infinity", wantErr: true},
		{in: "1e400", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumberString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotANumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoodInputMarshal(t *testing.T) {
	foods := []FoodInput{TextFood("salad"), {Name: "steak", Quantity: 1.5}}
	data, err := json.Marshal(foods)
	require.NoError(t, err)
	assert.JSONEq(t, `["salad", {"name": "steak", "quantity": 1.5}]`, string(data))
}

func TestFoodInputRejectsInvalid(t *testing.T) {
	var f FoodInput
	assert.Error(t, json.Unmarshal([]byte(`42`), &f))
}

func TestMealRequestCalorieOverride(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *float64
		wantErr error
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"calories": null}`},
		{name: "number", body: `{"calories": 420}`, want: ptr(420)},
		{name: "numeric string", body: `{"calories": " 310.5 "}`, want: ptr(310.5)},
		{name: "text", body: `{"calories": "not-a-number"}`, wantErr: ErrNotANumber},
		{name: "bool", body: `{"calories": true}`, wantErr: ErrNotANumber},
		{name: "NaN string", body: `{"calories": "NaN"}`, wantErr: ErrNotANumber},
		{name: "infinity string", body: `{"calories": "-Infinity"}`, wantErr: ErrNotANumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MealRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			got, err := req.CalorieOverride()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMealRequestSetCalories(t *testing.T) {
	var req MealRequest
	req.SetCalories(512.5)
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"calories": 512.5}`, string(data))
}

func TestMealRequestPhotoReference(t *testing.T) {
	assert.Equal(t, "https://example.com/a.jpg", MealRequest{PhotoURL: "https://example.com/a.jpg", PhotoData: "data:x"}.PhotoReference())
	assert.Equal(t, "data:x", MealRequest{PhotoData: "data:x"}.PhotoReference())
	assert.Empty(t, MealRequest{}.PhotoReference())
}

func TestNewProfileUpdate(t *testing.T) {
	data, err := json.Marshal(NewProfileUpdate(ptr(172), nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"height": 172, "weight": null}`, string(data))
}

func ptr(v float64) *float64 { return &v }
