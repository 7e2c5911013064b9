package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestClient serves handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, "/meals", r.URL.Path)
		w.Write([]byte(`{"count": 0, "meals": []}`))
	}, WithToken("tok"), WithAPIKey("key"))

	_, err := c.FetchMeals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "key", got.Get("X-API-Key"))
}

func TestNoCredentialHeadersByDefault(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"status": "UP"}`))
	})
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
	assert.Empty(t, got.Get("X-API-Key"))
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantDetails string
	}{
		{"error field", http.StatusBadRequest, `{"error": "Calories must be a number."}`, "Calories must be a number.", ""},
		{"error with details", http.StatusInternalServerError, `{"error": "Failed to query meals.", "details": "disk full"}`, "Failed to query meals.", "disk full"},
		{"json without error", http.StatusBadGateway, `{"message": "upstream"}`, `{"message":"upstream"}`, ""},
		{"json array", http.StatusBadRequest, `["a", "b"]`, `["a","b"]`, ""},
		{"not json", http.StatusServiceUnavailable, `<html>down</html>`, "Request failed", ""},
		{"empty body", http.StatusNotFound, ``, "Request failed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.FetchInsights(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantDetails, apiErr.Details)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "boom", (&APIError{Message: "boom"}).Error())
	assert.Equal(t, "boom (why)", (&APIError{Message: "boom", Details: "why"}).Error())
}

func TestCreateMealSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/meals", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"2 eggs", map[string]any{"name": "toast", "calories": 90.0}}, body["foods"])
		assert.Equal(t, 400.0, body["calories"])
		assert.NotContains(t, body, "photoUrl")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "m1", "foods": [], "calories": 400, "points": 50, "calorieExplanation": "ok"}`))
	})

	cal := 90.0
	req := types.MealRequest{Foods: []types.FoodInput{types.TextFood("2 eggs"), {Name: "toast", Calories: &cal}}}
	req.SetCalories(400)
	got, err := c.CreateMeal(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "ok", got.CalorieExplanation)
}

func TestUpdateProfileSendsNulls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"height": 172.5, "weight": null}`, string(raw))
		w.Write([]byte(`{"profile": {"height": 172.5, "weight": 60}, "bmi": 20.16}`))
	})

	h := 172.5
	got, err := c.UpdateProfile(context.Background(), &h, nil)
	require.NoError(t, err)
	assert.Equal(t, 20.16, *got.BMI)
}

func TestFetchMealsNilList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 0}`))
	})
	got, err := c.FetchMeals(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Meals)
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchProfile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://h:1", New("http://h:1///").BaseURL())
}
