package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paginoid/paginoid-server/internal/search"
	"github.com/paginoid/paginoid-server/internal/store"
)

// SearchService bridges the shelf search index with the data store. The store
// keeps the index current on every mutation; this service runs queries and
// the startup rebuild.
type SearchService struct {
	index  *search.Index
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, store *store.Store, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a query over one user's shelf.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// Rebuild reindexes every shelf from the store. Called at startup when the
// index was recreated (corruption or a mapping version bump).
func (s *SearchService) Rebuild(ctx context.Context) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	total := 0
	for _, user := range users {
		books, err := s.store.ListBooks(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list books for %s: %w", user.ID, err)
		}
		if len(books) == 0 {
			continue
		}
		if err := s.index.IndexShelf(user.ID, books); err != nil {
			return fmt.Errorf("index shelf for %s: %w", user.ID, err)
		}
		total += len(books)
	}

	s.logger.Info("search index rebuilt", "users", len(users), "books", total)
	return nil
}

// DocumentCount returns the number of indexed book documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocCount()
}
