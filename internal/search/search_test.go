package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{
		DataPath: t.TempDir(),
		Logger:   nil,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testBook(id, title, author string, status domain.Status) *domain.Book {
	return &domain.Book{
		ID:        id,
		Title:     title,
		Author:    author,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func TestNewIndexStartsEmpty(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexBook(t *testing.T) {
	index := setupTestIndex(t)

	err := index.IndexBook(context.Background(), "usr_1",
		testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusReading))
	require.NoError(t, err)

	count, err := index.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchByTitle(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusRead)))
	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000002", "Ficciones", "Jorge Luis Borges", domain.StatusToRead)))

	result, err := index.Search(ctx, Params{UserID: "usr_1", Query: "rayuela", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "1700000000001", result.Hits[0].ID)
	assert.Equal(t, "Rayuela", result.Hits[0].Title)
}

func TestSearchByAuthor(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusRead)))
	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000002", "Ficciones", "Jorge Luis Borges", domain.StatusToRead)))

	result, err := index.Search(ctx, Params{UserID: "usr_1", Query: "borges", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Ficciones", result.Hits[0].Title)
}

func TestSearchScopedToOwner(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusRead)))
	require.NoError(t, index.IndexBook(ctx, "usr_2",
		testBook("1700000000002", "Rayuela", "Julio Cortázar", domain.StatusRead)))

	result, err := index.Search(ctx, Params{UserID: "usr_1", Query: "rayuela", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1, "another user's shelf must not leak into results")
	assert.Equal(t, "1700000000001", result.Hits[0].ID)
}

func TestSearchStatusFilter(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000001", "El Aleph", "Jorge Luis Borges", domain.StatusRead)))
	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000002", "Ficciones", "Jorge Luis Borges", domain.StatusToRead)))

	result, err := index.Search(ctx, Params{
		UserID: "usr_1",
		Query:  "borges",
		Status: domain.StatusToRead,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Ficciones", result.Hits[0].Title)
}

func TestDeleteBook(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, "usr_1",
		testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusRead)))
	require.NoError(t, index.DeleteBook(ctx, "usr_1", "1700000000001"))

	result, err := index.Search(ctx, Params{UserID: "usr_1", Query: "rayuela", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestIndexShelfBatch(t *testing.T) {
	index := setupTestIndex(t)

	books := []*domain.Book{
		testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusRead),
		testBook("1700000000002", "Ficciones", "Jorge Luis Borges", domain.StatusToRead),
		testBook("1700000000003", "Pedro Páramo", "Juan Rulfo", domain.StatusReading),
	}
	require.NoError(t, index.IndexShelf("usr_1", books))

	count, err := index.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestReindexReplacesDocument(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	book := testBook("1700000000001", "Rayuela", "Julio Cortázar", domain.StatusToRead)
	require.NoError(t, index.IndexBook(ctx, "usr_1", book))

	book.Status = domain.StatusReading
	require.NoError(t, index.IndexBook(ctx, "usr_1", book))

	count, err := index.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	result, err := index.Search(ctx, Params{UserID: "usr_1", Query: "rayuela", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, domain.StatusReading, result.Hits[0].Status)
}
