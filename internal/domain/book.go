// Package domain contains the core Paginoid entities: books, users, goals
// and reading sessions.
package domain

import (
	"math"
	"time"
)

// Status represents where a book sits on the user's shelf.
// It is a closed enum so tab and filter logic can be checked for exhaustiveness.
type Status string

const (
	// StatusToRead marks a book the user plans to read.
	StatusToRead Status = "to_read"
	// StatusReading marks a book the user is currently reading.
	StatusReading Status = "reading"
	// StatusRead marks a finished book.
	StatusRead Status = "read"
	// StatusLoaned marks a book lent out to someone else.
	StatusLoaned Status = "loaned"
)

// Statuses lists every shelf status in tab order.
var Statuses = []Status{StatusToRead, StatusReading, StatusRead, StatusLoaned}

// IsValid reports whether s is one of the four shelf statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead, StatusLoaned:
		return true
	}
	return false
}

// Rating bounds for book reviews.
const (
	MinRating = 0
	MaxRating = 5
)

// Book is a single record on a user's shelf.
// The ID doubles as the document key and is time-ordered, so key order is
// creation order. Ownership is implied by the storage path
// (users/{ownerID}/userBooks/{bookID}), not by a field on the record.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Status      Status    `json:"status"`
	Rating      int       `json:"rating"` // 0-5
	Review      string    `json:"review,omitempty"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the creation-time invariants: non-empty title and author,
// a known status, rating within range, and non-negative page counts.
func (b *Book) Validate() error {
	if b.Title == "" {
		return ErrBookTitleRequired
	}
	if b.Author == "" {
		return ErrBookAuthorRequired
	}
	if !b.Status.IsValid() {
		return ErrBookStatusInvalid
	}
	if b.Rating < MinRating || b.Rating > MaxRating {
		return ErrBookRatingRange
	}
	if b.CurrentPage < 0 || b.TotalPages < 0 {
		return ErrBookPagesNegative
	}
	return nil
}

// Progress returns the reading progress percentage, rounded to the nearest
// integer. It is only meaningful for books being read; for anything else,
// or when the page count is unknown, it returns 0.
func (b *Book) Progress() int {
	if b.Status != StatusReading || b.TotalPages <= 0 {
		return 0
	}
	return int(math.Round(float64(b.CurrentPage) / float64(b.TotalPages) * 100))
}

// RatingGlyphs renders the rating as filled and empty star glyphs,
// e.g. rating 4 -> "★★★★☆".
func (b *Book) RatingGlyphs() string {
	glyphs := make([]rune, 0, MaxRating)
	for i := 0; i < MaxRating; i++ {
		if i < b.Rating {
			glyphs = append(glyphs, '★')
		} else {
			glyphs = append(glyphs, '☆')
		}
	}
	return string(glyphs)
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}
