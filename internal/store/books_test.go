package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/domain"
)

func TestCreateAndGetBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := testBook("1700000000001", "Rayuela", domain.StatusReading)
	mustCreateBook(t, s, "usr_1", book)

	got, err := s.GetBook(ctx, "usr_1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rayuela", got.Title)
	assert.Equal(t, domain.StatusReading, got.Status)
}

func TestCreateBookDuplicate(t *testing.T) {
	s := setupTestStore(t)

	book := testBook("1700000000001", "Rayuela", domain.StatusReading)
	mustCreateBook(t, s, "usr_1", book)

	err := s.CreateBook(context.Background(), "usr_1", book)
	assert.ErrorIs(t, err, ErrBookExists)
}

func TestBooksAreScopedToOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := testBook("1700000000001", "Rayuela", domain.StatusReading)
	mustCreateBook(t, s, "usr_1", book)

	_, err := s.GetBook(ctx, "usr_2", book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	books, err := s.ListBooks(ctx, "usr_2")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestUpdateBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := testBook("1700000000001", "Rayuela", domain.StatusReading)
	mustCreateBook(t, s, "usr_1", book)

	book.Status = domain.StatusRead
	book.Rating = 5
	require.NoError(t, s.UpdateBook(ctx, "usr_1", book))

	got, err := s.GetBook(ctx, "usr_1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRead, got.Status)
	assert.Equal(t, 5, got.Rating)
}

func TestUpdateBookNotFound(t *testing.T) {
	s := setupTestStore(t)

	book := testBook("1700000000001", "Rayuela", domain.StatusReading)
	err := s.UpdateBook(context.Background(), "usr_1", book)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBookIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := testBook("1700000000001", "Rayuela", domain.StatusReading)
	mustCreateBook(t, s, "usr_1", book)

	require.NoError(t, s.DeleteBook(ctx, "usr_1", book.ID))
	require.NoError(t, s.DeleteBook(ctx, "usr_1", book.ID))

	_, err := s.GetBook(ctx, "usr_1", book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooksChronologicalOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Time-ordered IDs, inserted out of order.
	mustCreateBook(t, s, "usr_1", testBook("1700000000003", "Tercero", domain.StatusToRead))
	mustCreateBook(t, s, "usr_1", testBook("1700000000001", "Primero", domain.StatusToRead))
	mustCreateBook(t, s, "usr_1", testBook("1700000000002", "Segundo", domain.StatusToRead))

	books, err := s.ListBooks(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Primero", books[0].Title)
	assert.Equal(t, "Segundo", books[1].Title)
	assert.Equal(t, "Tercero", books[2].Title)
}

func TestListBooksByStatus(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateBook(t, s, "usr_1", testBook("1700000000001", "Rayuela", domain.StatusReading))
	mustCreateBook(t, s, "usr_1", testBook("1700000000002", "Ficciones", domain.StatusRead))
	mustCreateBook(t, s, "usr_1", testBook("1700000000003", "Pedro Páramo", domain.StatusReading))

	books, err := s.ListBooksByStatus(ctx, "usr_1", domain.StatusReading)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Rayuela", books[0].Title)
	assert.Equal(t, "Pedro Páramo", books[1].Title)
}

type captureEmitter struct {
	events []any
}

func (c *captureEmitter) Emit(event any) {
	c.events = append(c.events, event)
}

func TestBookMutationsEmitEvents(t *testing.T) {
	emitter := &captureEmitter{}

	dbPath := t.TempDir() + "/events.db"
	s, err := New(dbPath, nil, emitter)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	book := testBook("1700000000001", "Rayuela", domain.StatusReading)

	require.NoError(t, s.CreateBook(ctx, "usr_1", book))
	book.Rating = 3
	require.NoError(t, s.UpdateBook(ctx, "usr_1", book))
	require.NoError(t, s.DeleteBook(ctx, "usr_1", book.ID))

	require.Len(t, emitter.events, 3)
}
