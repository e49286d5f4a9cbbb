package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *apiTestServer) createTestGoal(t *testing.T, token string) GoalResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/goals",
		"Authorization: Bearer "+token,
		map[string]any{
			"name":   "Leer 12 libros",
			"unit":   "Libros",
			"target": 12,
		})
	require.Equal(t, http.StatusCreated, resp.Code, "Create goal failed: %s", resp.Body.String())

	var envelope testEnvelope[GoalResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateGoal(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	goal := ts.createTestGoal(t, token)

	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "Leer 12 libros", goal.Name)
	assert.Equal(t, "Libros", goal.Unit)
	assert.Equal(t, 12, goal.Target)
	assert.Zero(t, goal.Current)
	assert.Zero(t, goal.Percent)
}

func TestCreateGoal_MissingTarget(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Post("/api/v1/goals",
		"Authorization: Bearer "+token,
		map[string]any{
			"name": "Leer más",
			"unit": "Libros",
		})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdvanceGoal(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	goal := ts.createTestGoal(t, token)

	resp := ts.api.Post("/api/v1/goals/"+goal.ID+"/advance",
		"Authorization: Bearer "+token,
		map[string]any{"delta": 3})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[GoalResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 3, envelope.Data.Current)
	assert.InDelta(t, 25.0, envelope.Data.Percent, 0.01)
}

func TestSetGoalProgress_ClampsNegative(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	goal := ts.createTestGoal(t, token)

	resp := ts.api.Put("/api/v1/goals/"+goal.ID+"/progress",
		"Authorization: Bearer "+token,
		map[string]any{"current": -5})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[GoalResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Zero(t, envelope.Data.Current)
}

func TestGetGoal_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	anaToken, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	lucasToken, _ := ts.registerTestUser(t, "lucas@example.com", "Lucas")

	goal := ts.createTestGoal(t, anaToken)

	resp := ts.api.Get("/api/v1/goals/"+goal.ID, "Authorization: Bearer "+lucasToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteGoal(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	goal := ts.createTestGoal(t, token)

	resp := ts.api.Delete("/api/v1/goals/"+goal.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/goals", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListGoalsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Goals)
}
