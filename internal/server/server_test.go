package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/mealtracker/internal/auth"
	"github.com/mesh-intelligence/mealtracker/internal/sqlite"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

const (
	testAPISecret = "api-secret"
	testJWTSecret = "jwt-secret"
)

// setupServer returns a server backed by a fresh SQLite store.
func setupServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return New(b, cfg, nil, WithClock(func() time.Time { return fixedNow }))
}

func authConfig() Config {
	return Config{APISecret: testAPISecret, JWTSecret: testJWTSecret}
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	} else {
		rdr = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := setupServer(t, authConfig())

	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	h := decode[types.Health](t, rec)
	assert.Equal(t, types.Health{Status: "UP", Database: true, APISecretLoaded: true, JWTSecretLoaded: true, AuthReady: true}, h)

	rec = do(t, s, http.MethodGet, "/api/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "UP", decode[types.StatusResponse](t, rec).Status)

	bare := setupServer(t, Config{})
	h = decode[types.Health](t, do(t, bare, http.MethodGet, "/healthz", ""))
	assert.False(t, h.AuthReady)
	assert.False(t, h.APISecretLoaded)
}

func TestCreateMeal(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		check      func(t *testing.T, m types.CreatedMeal)
	}{
		{
			name:       "manual foods",
			path:       "/api/meals",
			body:       `{"foods": ["2 eggs", "toast"], "mood": "Energized", "notes": "quick"}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, m types.CreatedMeal) {
				assert.Equal(t, types.MethodManual, m.CalorieMethod)
				assert.Len(t, m.Foods, 2)
				assert.Equal(t, "eggs", m.Foods[0].Name)
				assert.Equal(t, "eggs", m.MealName)
				assert.Equal(t, types.DemoUserID, m.UserID)
				assert.NotEmpty(t, m.ID)
				assert.Contains(t, m.CalorieExplanation, "Detected via manual input")
				assert.True(t, fixedNow.Equal(m.CreatedAt))
				require.NotNil(t, m.Mood)
				assert.Equal(t, "Energized", *m.Mood)
				assert.GreaterOrEqual(t, m.Points, 5)
			},
		},
		{
			name:       "calorie override as string",
			path:       "/meals",
			body:       `{"foods": ["salad"], "calories": "512.34", "meal_name": " Lunch ", "user_id": "sam"}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, m types.CreatedMeal) {
				assert.Equal(t, 512.3, m.Calories)
				assert.Equal(t, "Lunch", m.MealName)
				assert.Equal(t, "sam", m.UserID)
			},
		},
		{
			name:       "photo reference",
			path:       "/api/meals",
			body:       `{"photoUrl": "https://example.com/plate.jpg"}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, m types.CreatedMeal) {
				assert.Equal(t, types.MethodPhoto, m.CalorieMethod)
				assert.NotEmpty(t, m.Foods)
				require.NotNil(t, m.Photo)
				assert.Equal(t, "https://example.com/plate.jpg", *m.Photo)
			},
		},
		{
			name:       "structured foods with numeric strings",
			path:       "/api/meals",
			body:       `{"foods": [{"name": "salad", "calories": "300"}, {"name": "rice", "quantity": "2"}]}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, m types.CreatedMeal) {
				require.Len(t, m.Foods, 2)
				assert.Equal(t, 300.0, m.Foods[0].Calories)
				assert.Equal(t, 2.0, m.Foods[1].Quantity)
				assert.Greater(t, m.Foods[1].Calories, 0.0)
			},
		},
		{
			name:       "mistyped field keeps the foods",
			path:       "/api/meals",
			body:       `{"foods": ["apple"], "mood": 5}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, m types.CreatedMeal) {
				require.Len(t, m.Foods, 1)
				assert.Equal(t, "apple", m.Foods[0].Name)
				assert.Nil(t, m.Mood)
			},
		},
		{
			name:       "nutrition hints",
			path:       "/api/meals",
			body:       `{"nutritionHints": [{"name": "granola bar", "calories": 190}]}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, m types.CreatedMeal) {
				assert.Equal(t, types.MethodHint, m.CalorieMethod)
				assert.Equal(t, 190.0, m.Calories)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServer(t, Config{})
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			tt.check(t, decode[types.CreatedMeal](t, rec))
		})
	}
}

func TestCreateMeal_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", ``, "Provide at least one food item or a photo reference."},
		{"malformed body", `{"foods": [`, "Provide at least one food item or a photo reference."},
		{"no foods", `{"foods": []}`, "Provide at least one food item or a photo reference."},
		{"bad calories", `{"foods": ["apple"], "calories": "lots"}`, "Calories must be a number."},
		{"NaN calories", `{"foods": ["salad"], "calories": "NaN"}`, "Calories must be a number."},
		{"infinite calories", `{"foods": ["salad"], "calories": "Infinity"}`, "Calories must be a number."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServer(t, Config{})
			rec := do(t, s, http.MethodPost, "/api/meals", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decode[types.ErrorResponse](t, rec).Error)
		})
	}
}

func TestMealLifecycle(t *testing.T) {
	s := setupServer(t, Config{})

	first := decode[types.CreatedMeal](t, do(t, s, http.MethodPost, "/api/meals", `{"foods": ["oatmeal"]}`))
	second := decode[types.CreatedMeal](t, do(t, s, http.MethodPost, "/meals", `{"foods": ["chicken salad"]}`))

	list := decode[types.MealList](t, do(t, s, http.MethodGet, "/api/meals", ""))
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Meals, 2)

	rec := do(t, s, http.MethodGet, "/api/meals/"+first.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decode[types.Meal](t, rec).ID)

	rec = do(t, s, http.MethodDelete, "/api/meals/"+second.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/meals/"+second.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/meals/"+second.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	list = decode[types.MealList](t, do(t, s, http.MethodGet, "/meals", ""))
	assert.Equal(t, 1, list.Count)
}

func TestInsightsAndSummary(t *testing.T) {
	s := setupServer(t, Config{})

	empty := decode[types.Insights](t, do(t, s, http.MethodGet, "/api/meals/insights", ""))
	assert.Zero(t, empty.TotalMeals)
	assert.Nil(t, empty.Weekly.BestDay.Date)
	assert.NotEmpty(t, empty.Recommendations)

	created := decode[types.CreatedMeal](t, do(t, s, http.MethodPost, "/api/meals", `{"foods": ["chicken", "rice", "broccoli"]}`))

	ins := decode[types.Insights](t, do(t, s, http.MethodGet, "/api/meals/insights", ""))
	assert.Equal(t, 1, ins.TotalMeals)
	assert.Equal(t, created.Points, ins.Points)
	assert.Equal(t, 1, ins.Weekly.Count)
	assert.Equal(t, 1, ins.Streaks.Current)
	require.NotEmpty(t, ins.Achievements)
	assert.Equal(t, "first-log", ins.Achievements[0].ID)
	assert.True(t, ins.Achievements[0].Achieved)

	summary := decode[types.WeeklySummary](t, do(t, s, http.MethodGet, "/api/meals/summary", ""))
	assert.Equal(t, ins.Weekly, summary)
}

func TestProfile(t *testing.T) {
	s := setupServer(t, Config{})

	got := decode[types.ProfileResponse](t, do(t, s, http.MethodGet, "/api/users/profile", ""))
	assert.Nil(t, got.Profile.Height)
	assert.Nil(t, got.BMI)

	rec := do(t, s, http.MethodPut, "/api/users/profile", `{"height": 180}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[types.ProfileResponse](t, rec)
	assert.Equal(t, 180.0, *got.Profile.Height)
	assert.Nil(t, got.BMI, "bmi needs both values")

	got = decode[types.ProfileResponse](t, do(t, s, http.MethodPut, "/api/users/profile", `{"weight": "81"}`))
	require.NotNil(t, got.BMI)
	assert.Equal(t, 25.0, *got.BMI)

	for _, body := range []string{`{"height": "tall"}`, `{"height": "Infinity", "weight": 70}`, `{"weight": "NaN"}`} {
		rec = do(t, s, http.MethodPut, "/api/users/profile", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Height and weight must be numbers.", decode[types.ErrorResponse](t, rec).Error)
	}

	rec = do(t, s, http.MethodGet, "/api/users/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[types.ProfileResponse](t, rec)
	assert.Equal(t, 180.0, *got.Profile.Height)
	assert.Equal(t, 81.0, *got.Profile.Weight)
}

func TestBMI(t *testing.T) {
	s := setupServer(t, Config{})

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBMI    float64
		wantMsg    string
	}{
		{"valid", "/api/users/bmi", `{"weight": 70, "height": 175}`, http.StatusOK, 22.86, ""},
		{"root path", "/bmi", `{"weight": "70", "height": "175"}`, http.StatusOK, 22.86, ""},
		{"missing height", "/api/users/bmi", `{"weight": 70}`, http.StatusBadRequest, 0, "Both weight and height are required."},
		{"not numbers", "/api/users/bmi", `{"weight": "x", "height": 170}`, http.StatusBadRequest, 0, "Height and weight must be numbers."},
		{"zero height", "/bmi", `{"weight": 70, "height": 0}`, http.StatusBadRequest, 0, "Height must be greater than zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decode[types.ErrorResponse](t, rec).Error)
				return
			}
			assert.Equal(t, tt.wantBMI, decode[types.BMIResponse](t, rec).BMI)
		})
	}
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t, authConfig())
	creds := `{"email": " Ada@Example.com ", "password": "pw"}`

	rec := do(t, s, http.MethodPost, "/auth/signup", creds, "X-API-Key", testAPISecret)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "created", decode[types.StatusResponse](t, rec).Status)

	rec = do(t, s, http.MethodPost, "/auth/signup", creds, "Authorization", "Bearer "+testAPISecret)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login", `{"email": "ada@example.com", "password": "bad"}`, "X-API-Key", testAPISecret)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials.", decode[types.ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodPost, "/auth/login", creds, "X-API-Key", testAPISecret)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[types.TokenResponse](t, rec).Token
	require.NotEmpty(t, token)

	rec = do(t, s, http.MethodGet, "/auth/profile", "", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", decode[types.Identity](t, rec).Email)

	// Meals logged with a session token belong to the token's subject.
	rec = do(t, s, http.MethodPost, "/api/meals", `{"foods": ["apple"], "user_id": "other"}`, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ada@example.com", decode[types.CreatedMeal](t, rec).UserID)

	rec = do(t, s, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logged_out", decode[types.StatusResponse](t, rec).Status)
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		path       string
		method     string
		body       string
		headers    []string
		wantStatus int
		wantMsg    string
	}{
		{"signup without secret configured", Config{}, "/auth/signup", http.MethodPost, `{}`, nil, http.StatusInternalServerError, "Server misconfigured: missing API_SECRET"},
		{"login with wrong secret", authConfig(), "/auth/login", http.MethodPost, `{}`, []string{"X-API-Key", "nope"}, http.StatusUnauthorized, "Unauthorized"},
		{"signup missing password", authConfig(), "/auth/signup", http.MethodPost, `{"email": "a@b.c"}`, []string{"X-API-Key", testAPISecret}, http.StatusBadRequest, "Email and password are required."},
		{"login unknown user", authConfig(), "/auth/login", http.MethodPost, `{"email": "a@b.c", "password": "x"}`, []string{"X-API-Key", testAPISecret}, http.StatusUnauthorized, "Invalid credentials."},
		{"profile without token", authConfig(), "/auth/profile", http.MethodGet, "", nil, http.StatusUnauthorized, "Unauthorized"},
		{"profile with bad token", authConfig(), "/auth/profile", http.MethodGet, "", []string{"Authorization", "Bearer junk"}, http.StatusUnauthorized, "Unauthorized"},
		{"profile without jwt secret", Config{APISecret: testAPISecret}, "/auth/profile", http.MethodGet, "", []string{"Authorization", "Bearer junk"}, http.StatusInternalServerError, auth.ErrMissingSecret.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServer(t, tt.cfg)
			rec := do(t, s, tt.method, tt.path, tt.body, tt.headers...)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantMsg, decode[types.ErrorResponse](t, rec).Error)
		})
	}
}

func TestLoginWithoutJWTSecret(t *testing.T) {
	s := setupServer(t, Config{APISecret: testAPISecret})
	creds := `{"email": "a@b.c", "password": "pw"}`
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/auth/signup", creds, "X-API-Key", testAPISecret).Code)

	rec := do(t, s, http.MethodPost, "/auth/login", creds, "X-API-Key", testAPISecret)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server misconfigured: missing JWT_SECRET", decode[types.ErrorResponse](t, rec).Error)
}

func TestCORS(t *testing.T) {
	s := setupServer(t, Config{})
	req := httptest.NewRequest(http.MethodOptions, "/api/meals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	s := setupServer(t, Config{})
	rec := do(t, s, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[types.ErrorResponse](t, rec).Error)
}

func TestDetachedStore(t *testing.T) {
	b := sqlite.NewBackend()
	s := New(b, Config{}, nil)

	rec := do(t, s, http.MethodGet, "/api/meals", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, types.ErrStoreDetached.Error(), decode[types.ErrorResponse](t, rec).Details)

	h := decode[types.Health](t, do(t, s, http.MethodGet, "/healthz", ""))
	assert.False(t, h.Database)
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	s := setupServer(t, Config{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/meals", "application/json",
		bytes.NewBufferString(`{"foods": ["banana"]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}
