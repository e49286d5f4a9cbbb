package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *apiTestServer) createTestBook(t *testing.T, token, title, author, status string) BookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books",
		"Authorization: Bearer "+token,
		map[string]any{
			"title":  title,
			"author": author,
			"status": status,
		})
	require.Equal(t, http.StatusCreated, resp.Code, "Create book failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	book := ts.createTestBook(t, token, "Rayuela", "Julio Cortázar", "reading")

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Rayuela", book.Title)
	assert.Equal(t, "Julio Cortázar", book.Author)
	assert.Equal(t, "reading", book.Status)
	assert.Zero(t, book.Rating)
}

func TestCreateBook_DefaultsToToRead(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Post("/api/v1/books",
		"Authorization: Bearer "+token,
		map[string]any{
			"title":  "Ficciones",
			"author": "Jorge Luis Borges",
		})
	require.Equal(t, http.StatusCreated, resp.Code)

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "to_read", envelope.Data.Status)
}

func TestCreateBook_UnknownStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Post("/api/v1/books",
		"Authorization: Bearer "+token,
		map[string]any{
			"title":  "Rayuela",
			"author": "Julio Cortázar",
			"status": "abandoned",
		})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateBook_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":  "Rayuela",
		"author": "Julio Cortázar",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListBooks_FiltersByStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	ts.createTestBook(t, token, "Rayuela", "Julio Cortázar", "reading")
	ts.createTestBook(t, token, "Ficciones", "Jorge Luis Borges", "read")
	ts.createTestBook(t, token, "Pedro Páramo", "Juan Rulfo", "reading")

	resp := ts.api.Get("/api/v1/books?status=reading", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Books, 2)
	for _, book := range envelope.Data.Books {
		assert.Equal(t, "reading", book.Status)
	}

	resp = ts.api.Get("/api/v1/books", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Books, 3)
}

func TestListBooks_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	anaToken, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	lucasToken, _ := ts.registerTestUser(t, "lucas@example.com", "Lucas")

	ts.createTestBook(t, anaToken, "Rayuela", "Julio Cortázar", "reading")

	resp := ts.api.Get("/api/v1/books", "Authorization: Bearer "+lucasToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Books)
}

func TestGetBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")

	resp := ts.api.Get("/api/v1/books/nope", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateBook_PartialPatch(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	book := ts.createTestBook(t, token, "Rayuela", "Julio Cortázar", "reading")

	resp := ts.api.Patch("/api/v1/books/"+book.ID,
		"Authorization: Bearer "+token,
		map[string]any{
			"status":       "read",
			"rating":       5,
			"current_page": 600,
			"total_pages":  600,
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "read", envelope.Data.Status)
	assert.Equal(t, 5, envelope.Data.Rating)
	assert.Equal(t, 100, envelope.Data.Progress)
	// Untouched fields survive the patch.
	assert.Equal(t, "Rayuela", envelope.Data.Title)
	assert.Equal(t, "Julio Cortázar", envelope.Data.Author)
}

func TestUpdateBook_UnknownStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	book := ts.createTestBook(t, token, "Rayuela", "Julio Cortázar", "reading")

	resp := ts.api.Patch("/api/v1/books/"+book.ID,
		"Authorization: Bearer "+token,
		map[string]any{"status": "abandoned"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "ana@example.com", "Ana")
	book := ts.createTestBook(t, token, "Rayuela", "Julio Cortázar", "reading")

	resp := ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
