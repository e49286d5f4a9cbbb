package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/sse"
)

// Shelf documents are stored per user under userbook:<userID>:<bookID>.
// Book IDs are time-ordered, so a prefix scan yields the shelf in the
// order books were added.
const userBookPrefix = "userbook:"

var (
	// ErrBookNotFound is returned when a shelf book cannot be found.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookExists is returned when attempting to create a book with an existing ID.
	ErrBookExists = errors.New("book already exists")
)

// CreateBook adds a book to a user's shelf.
func (s *Store) CreateBook(ctx context.Context, userID string, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(userBookPrefix, userID+":"+book.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("save book: %w", err)
	}

	s.eventEmitter.Emit(sse.NewBookCreatedEvent(userID, book))
	s.indexBookAsync(userID, book)
	s.notifyShelfChanged(userID)

	return nil
}

// GetBook retrieves a single book from a user's shelf.
func (s *Store) GetBook(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(userBookPrefix, userID+":"+bookID)
	defer releaseKey(key)

	var book domain.Book
	if err := s.get(key, &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

// UpdateBook replaces an existing book on a user's shelf.
func (s *Store) UpdateBook(ctx context.Context, userID string, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(userBookPrefix, userID+":"+book.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("save book: %w", err)
	}

	s.eventEmitter.Emit(sse.NewBookUpdatedEvent(userID, book))
	s.indexBookAsync(userID, book)
	s.notifyShelfChanged(userID)

	return nil
}

// DeleteBook removes a book from a user's shelf.
// Deleting a missing book is not an error.
func (s *Store) DeleteBook(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(userBookPrefix, userID+":"+bookID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return nil
	}

	if err := s.delete(key); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.eventEmitter.Emit(sse.NewBookDeletedEvent(userID, bookID))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteBook(context.Background(), userID, bookID); err != nil {
				s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
			}
		}()
	}

	s.notifyShelfChanged(userID)

	return nil
}

// ListBooks returns all books on a user's shelf in the order they were added.
func (s *Store) ListBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	return s.listBooks(ctx, userID, "")
}

// ListBooksByStatus returns the user's books with the given status,
// in the order they were added.
func (s *Store) ListBooksByStatus(ctx context.Context, userID string, status domain.Status) ([]*domain.Book, error) {
	return s.listBooks(ctx, userID, status)
}

func (s *Store) listBooks(ctx context.Context, userID string, status domain.Status) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := buildKey(userBookPrefix, userID+":")
	defer releaseKey(prefix)

	books := make([]*domain.Book, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var book domain.Book
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}

			if status != "" && book.Status != status {
				continue
			}

			books = append(books, &book)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// indexBookAsync pushes a book into the search index without blocking the write path.
func (s *Store) indexBookAsync(userID string, book *domain.Book) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexBook(context.Background(), userID, book); err != nil {
			s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
		}
	}()
}
