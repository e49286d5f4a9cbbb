package domain

import "errors"

// Validation errors for book records.
var (
	ErrBookTitleRequired  = errors.New("book title is required")
	ErrBookAuthorRequired = errors.New("book author is required")
	ErrBookStatusInvalid  = errors.New("book status must be one of to_read, reading, read, loaned")
	ErrBookRatingRange    = errors.New("book rating must be between 0 and 5")
	ErrBookPagesNegative  = errors.New("book page counts must not be negative")
)
