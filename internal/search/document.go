// Package search provides full-text shelf search using Bleve.
// Books are indexed per owner so queries never cross user boundaries.
package search

import (
	"github.com/paginoid/paginoid-server/internal/domain"
)

// bookDocument is the indexed shape of a shelf book.
type bookDocument struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Review    string `json:"review,omitempty"`
	Status    string `json:"status"`
	Rating    int    `json:"rating"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// docID is the index key: the book ID alone is unique, but prefixing the
// owner makes per-user deletes and rebuilds cheap to reason about.
func docID(userID, bookID string) string {
	return userID + "/" + bookID
}

func newBookDocument(userID string, book *domain.Book) *bookDocument {
	return &bookDocument{
		ID:        book.ID,
		UserID:    userID,
		Title:     book.Title,
		Author:    book.Author,
		Review:    book.Review,
		Status:    string(book.Status),
		Rating:    book.Rating,
		CreatedAt: book.CreatedAt.UnixMilli(),
	}
}

// toMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *bookDocument) toMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"author":     d.Author,
		"review":     d.Review,
		"status":     d.Status,
		"rating":     d.Rating,
		"created_at": d.CreatedAt,
	}
}
