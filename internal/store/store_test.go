package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath, nil, NewNoopEmitter())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func testUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$argon2id$fake",
		Name:         "Ana",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testBook(id, title string, status domain.Status) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:        id,
		Title:     title,
		Author:    "Julio Cortázar",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustCreateBook(t *testing.T, s *Store, userID string, book *domain.Book) {
	t.Helper()
	require.NoError(t, s.CreateBook(context.Background(), userID, book))
}
