package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// Index wraps a Bleve index with shelf-specific operations. It implements
// store.SearchIndexer so the document store keeps it in sync after every
// book mutation.
//
// Thread safety: all public methods are safe for concurrent use. The mutex
// protects against index corruption during rebuild operations.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses discard if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
const mappingVersion = "1"

// NewIndex creates or opens the shelf search index. A corrupted index or an
// outdated mapping version is removed and recreated; callers should reindex
// from the store when that happens.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexPath := filepath.Join(opts.DataPath, "search.bleve")
	versionPath := filepath.Join(opts.DataPath, "search.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild with current mapping",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBook indexes a single book for its owner.
// Call this when a book is created or updated.
func (s *Index) IndexBook(_ context.Context, userID string, book *domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := newBookDocument(userID, book)
	// Convert to map to ensure field names match the mapping (lowercase)
	if err := s.index.Index(docID(userID, book.ID), doc.toMap()); err != nil {
		return fmt.Errorf("index book: %w", err)
	}

	s.logger.Debug("indexed book", "user_id", userID, "book_id", book.ID)
	return nil
}

// DeleteBook removes a book from the index.
func (s *Index) DeleteBook(_ context.Context, userID, bookID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.index.Delete(docID(userID, bookID)); err != nil {
		return fmt.Errorf("delete from index: %w", err)
	}
	return nil
}

// IndexShelf indexes an owner's full shelf in a batch. This is significantly
// faster than calling IndexBook in a loop and is used for rebuilds.
func (s *Index) IndexShelf(userID string, books []*domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(books); i += batchSize {
		end := min(i+batchSize, len(books))

		batch := s.index.NewBatch()
		for _, book := range books[i:end] {
			doc := newBookDocument(userID, book)
			if err := batch.Index(docID(userID, book.ID), doc.toMap()); err != nil {
				return fmt.Errorf("batch index: %w", err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("apply batch: %w", err)
		}
	}

	s.logger.Info("indexed shelf", "user_id", userID, "count", len(books))
	return nil
}

// DocCount returns the number of indexed books.
func (s *Index) DocCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
