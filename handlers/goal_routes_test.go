package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"wellness-payout-system/models"
	"wellness-payout-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGoalApp(t *testing.T) (*fiber.App, *services.MemoryGoalStore) {
	t.Helper()
	t.Setenv("SERVICE_TOKEN", "test-token")
	log := zap.NewNop().Sugar()
	store := services.NewMemoryGoalStore()
	app := fiber.New()
	SetupGoalRoutes(app, services.NewGoalService(store, log), log)
	return app, store
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func validGoalBody() map[string]any {
	return map[string]any{
		"title":            "Sleep Like A Champion",
		"description":      "80+ sleep score, five nights straight",
		"health_data_type": "sleep",
		"target_value":     80,
		"conditions":       []string{"sleep_score >= 80", "consecutive_nights >= 5"},
		"reward":           100,
		"deadline":         time.Now().Add(14 * 24 * time.Hour).Format(time.RFC3339),
		"sponsor":          "sponsor-42",
	}
}

func TestCreateGoal(t *testing.T) {
	app, store := newGoalApp(t)

	status, body := doRequest(t, app, "POST", "/goals/", validGoalBody())
	require.Equal(t, fiber.StatusCreated, status, body)

	assert.Equal(t, "sleep-like-a-champion", body["slug"])
	assert.Equal(t, float64(5), body["required_consecutive_days"], "parsed from conditions at creation")
	assert.Equal(t, "automatic", body["verification_type"], "defaults to automatic")

	goals, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, models.DataTypeSleep, goals[0].HealthDataType)
}

func TestCreateGoalValidation(t *testing.T) {
	app, _ := newGoalApp(t)

	for name, mutate := range map[string]func(map[string]any){
		"missing title":       func(b map[string]any) { delete(b, "title") },
		"unknown data type":   func(b map[string]any) { b["health_data_type"] = "mood" },
		"non-positive reward": func(b map[string]any) { b["reward"] = 0 },
		"past deadline":       func(b map[string]any) { b["deadline"] = "2020-01-01T00:00:00Z" },
	} {
		t.Run(name, func(t *testing.T) {
			body := validGoalBody()
			mutate(body)
			status, _ := doRequest(t, app, "POST", "/goals/", body)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})
	}
}

func TestGetGoalNotFound(t *testing.T) {
	app, _ := newGoalApp(t)
	status, _ := doRequest(t, app, "GET", "/goals/does-not-exist", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGoalRoutesRequireToken(t *testing.T) {
	app, _ := newGoalApp(t)
	req := httptest.NewRequest("GET", "/goals/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestListExpiredGoals(t *testing.T) {
	app, store := newGoalApp(t)

	expired := &models.Goal{
		ID: "g-expired", Slug: "late", Title: "Late", HealthDataType: models.DataTypeSteps,
		TargetValue: 10000, Reward: 10, Deadline: time.Now().Add(-24 * time.Hour),
		Sponsor: "s", VerificationType: models.VerificationAutomatic,
	}
	require.NoError(t, store.Create(context.Background(), expired))

	status, body := doRequest(t, app, "GET", "/goals/expired", nil)
	require.Equal(t, fiber.StatusOK, status)
	goals, ok := body["goals"].([]any)
	require.True(t, ok)
	assert.Len(t, goals, 1)
}
