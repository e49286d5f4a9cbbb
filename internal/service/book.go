package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/id"
	"github.com/paginoid/paginoid-server/internal/shelf"
	"github.com/paginoid/paginoid-server/internal/store"
)

// BookService manages per-user shelves. It assigns the time-ordered book IDs
// so that key order in the store is creation order, and it is the shelf
// adapter's write and live-query surface.
type BookService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, logger *slog.Logger) *BookService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookService{
		store:  store,
		logger: logger,
	}
}

// Subscribe opens a live shelf query for an owner. An empty status means the
// whole shelf. The initial snapshot is delivered on the returned channel.
func (s *BookService) Subscribe(ctx context.Context, ownerID string, status domain.Status) (shelf.Subscription, error) {
	sub, err := s.store.SubscribeShelf(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("subscribe shelf: %w", err)
	}
	return sub, nil
}

// Create validates and persists a new book on the owner's shelf.
func (s *BookService) Create(ctx context.Context, ownerID string, book *domain.Book) (*domain.Book, error) {
	if err := book.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	book.ID = id.GenerateTimeOrdered()
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	if err := s.store.CreateBook(ctx, ownerID, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"user_id", ownerID,
		"book_id", book.ID,
		"status", book.Status,
	)
	return book, nil
}

// Get returns a single book from the owner's shelf.
func (s *BookService) Get(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// List returns the owner's shelf in creation order, optionally filtered by
// status.
func (s *BookService) List(ctx context.Context, ownerID string, status domain.Status) ([]*domain.Book, error) {
	if status == "" {
		return s.store.ListBooks(ctx, ownerID)
	}
	if !status.IsValid() {
		return nil, domainerrors.Validationf("unknown status %q", status)
	}
	return s.store.ListBooksByStatus(ctx, ownerID, status)
}

// Update validates and replaces a book on the owner's shelf.
func (s *BookService) Update(ctx context.Context, ownerID string, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return domainerrors.Validation(err.Error())
	}

	book.Touch()
	if err := s.store.UpdateBook(ctx, ownerID, book); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// EditBookRequest carries a partial book update. Nil fields are left as-is.
type EditBookRequest struct {
	Title       *string        `json:"title,omitempty"`
	Author      *string        `json:"author,omitempty"`
	Status      *domain.Status `json:"status,omitempty"`
	Rating      *int           `json:"rating,omitempty"`
	Review      *string        `json:"review,omitempty"`
	CurrentPage *int           `json:"current_page,omitempty"`
	TotalPages  *int           `json:"total_pages,omitempty"`
}

// Edit applies a partial update to a book and returns the stored result.
func (s *BookService) Edit(ctx context.Context, ownerID, bookID string, req EditBookRequest) (*domain.Book, error) {
	book, err := s.Get(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Status != nil {
		book.Status = *req.Status
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	if req.Review != nil {
		book.Review = *req.Review
	}
	if req.CurrentPage != nil {
		book.CurrentPage = *req.CurrentPage
	}
	if req.TotalPages != nil {
		book.TotalPages = *req.TotalPages
	}

	if err := s.Update(ctx, ownerID, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book from the owner's shelf. Deleting a book that is
// already gone is not an error.
func (s *BookService) Delete(ctx context.Context, ownerID, bookID string) error {
	if err := s.store.DeleteBook(ctx, ownerID, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "user_id", ownerID, "book_id", bookID)
	return nil
}
