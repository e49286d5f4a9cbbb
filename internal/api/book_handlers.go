package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the current user's shelf, optionally filtered by status",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a book to the current user's shelf",
		Tags:          []string{"Books"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a single book from the current user's shelf",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Applies a partial update; only fields present in the body change",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the current user's shelf",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
	Status        string `query:"status" doc:"Filter by status: to_read, reading, read or loaned"`
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID          string    `json:"id" doc:"Book ID"`
	Title       string    `json:"title" doc:"Book title"`
	Author      string    `json:"author" doc:"Author name"`
	Status      string    `json:"status" doc:"Shelf status"`
	Rating      int       `json:"rating" doc:"Rating 0-5, 0 means unrated"`
	Review      string    `json:"review,omitempty" doc:"Free-form review text"`
	CurrentPage int       `json:"current_page" doc:"Current page"`
	TotalPages  int       `json:"total_pages" doc:"Total pages"`
	Progress    int       `json:"progress" doc:"Reading progress percentage"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books on the shelf"`
}

// ListBooksOutput wraps the book list for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=300" doc:"Book title"`
	Author      string `json:"author" validate:"required,min=1,max=200" doc:"Author name"`
	Status      string `json:"status,omitempty" doc:"Initial status, defaults to to_read"`
	Rating      int    `json:"rating,omitempty" validate:"min=0,max=5" doc:"Rating 0-5"`
	Review      string `json:"review,omitempty" validate:"max=5000" doc:"Review text"`
	CurrentPage int    `json:"current_page,omitempty" validate:"min=0" doc:"Current page"`
	TotalPages  int    `json:"total_pages,omitempty" validate:"min=0" doc:"Total pages"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput contains parameters for fetching a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest contains fields that can be updated on a book.
// Only non-nil fields are applied (true PATCH semantics); omitempty is
// intentionally absent so "field set to zero" survives the round trip.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Status      *string `json:"status"`
	Rating      *int    `json:"rating"`
	Review      *string `json:"review"`
	CurrentPage *int    `json:"current_page"`
	TotalPages  *int    `json:"total_pages"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.List(ctx, userID, domain.Status(input.Status))
	if err != nil {
		return nil, err
	}

	out := make([]BookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, mapBook(book))
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: out}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	status := domain.Status(input.Body.Status)
	if input.Body.Status == "" {
		status = domain.StatusToRead
	}
	if !status.IsValid() {
		return nil, domainerrors.Validationf("estado desconocido: %q", input.Body.Status)
	}

	book, err := s.services.Book.Create(ctx, userID, &domain.Book{
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		Status:      status,
		Rating:      input.Body.Rating,
		Review:      input.Body.Review,
		CurrentPage: input.Body.CurrentPage,
		TotalPages:  input.Body.TotalPages,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.EditBookRequest{
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		Rating:      input.Body.Rating,
		Review:      input.Body.Review,
		CurrentPage: input.Body.CurrentPage,
		TotalPages:  input.Body.TotalPages,
	}
	if input.Body.Status != nil {
		status := domain.Status(*input.Body.Status)
		if !status.IsValid() {
			return nil, domainerrors.Validationf("estado desconocido: %q", *input.Body.Status)
		}
		req.Status = &status
	}

	book, err := s.services.Book.Edit(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBook(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

// === Helpers ===

func mapBook(book *domain.Book) BookResponse {
	return BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Status:      string(book.Status),
		Rating:      book.Rating,
		Review:      book.Review,
		CurrentPage: book.CurrentPage,
		TotalPages:  book.TotalPages,
		Progress:    book.Progress(),
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}
