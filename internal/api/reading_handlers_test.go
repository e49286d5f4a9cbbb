package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingTimerFlow(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	// Nothing running yet.
	resp := ts.api.Get("/api/v1/reading/active", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var active testEnvelope[ActiveReadingResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &active))
	assert.Nil(t, active.Data.Session)

	// Start the timer.
	resp = ts.api.Post("/api/v1/reading/start", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var started testEnvelope[ReadingSessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &started))
	assert.NotEmpty(t, started.Data.ID)
	assert.Nil(t, started.Data.FinishedAt)

	// Starting again is idempotent.
	resp = ts.api.Post("/api/v1/reading/start", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var again testEnvelope[ReadingSessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &again))
	assert.Equal(t, started.Data.ID, again.Data.ID)

	// The running session shows up as active.
	resp = ts.api.Get("/api/v1/reading/active", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &active))
	require.NotNil(t, active.Data.Session)
	assert.Equal(t, started.Data.ID, active.Data.Session.ID)

	// Stop records the duration.
	resp = ts.api.Post("/api/v1/reading/stop", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var stopped testEnvelope[ReadingSessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stopped))
	assert.Equal(t, started.Data.ID, stopped.Data.ID)
	assert.NotNil(t, stopped.Data.FinishedAt)

	// Nothing running anymore.
	resp = ts.api.Get("/api/v1/reading/active", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &active))
	assert.Nil(t, active.Data.Session)
}

func TestStopReading_WithoutTimer(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Post("/api/v1/reading/stop", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReadingStats_SevenDayWindow(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Get("/api/v1/reading/stats", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ReadingStatsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Len(t, envelope.Data.WeekDays, 7)
	assert.Zero(t, envelope.Data.TodayMs)
	assert.Zero(t, envelope.Data.WeekMs)
}

func TestReadingHistory_InvalidDate(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Get("/api/v1/reading/history?from=ayer", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReadingHistory_ListsFinishedSessions(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Post("/api/v1/reading/start", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/reading/stop", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/reading/history", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ReadingHistoryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Sessions, 1)
	assert.NotNil(t, envelope.Data.Sessions[0].FinishedAt)
}

func TestReading_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/reading/start")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
