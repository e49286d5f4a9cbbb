package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
	"github.com/paginoid/paginoid-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search shelf",
		Description: "Full-text search over the current user's books",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Reindexes every shelf from the document store",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindexSearch)
}

// === DTOs ===

// SearchInput contains parameters for a shelf search.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
	Status        string `query:"status" doc:"Optional status filter"`
	Limit         int    `query:"limit" doc:"Max hits, defaults to 20"`
	Offset        int    `query:"offset" doc:"Hits to skip"`
}

// SearchHitResponse is one search result.
type SearchHitResponse struct {
	ID         string              `json:"id" doc:"Book ID"`
	Score      float64             `json:"score" doc:"Relevance score"`
	Title      string              `json:"title" doc:"Book title"`
	Author     string              `json:"author" doc:"Author name"`
	Status     string              `json:"status" doc:"Shelf status"`
	Rating     int                 `json:"rating" doc:"Rating 0-5"`
	Highlights map[string]string   `json:"highlights,omitempty" doc:"Matched fragments per field"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string              `json:"query" doc:"Echoed query"`
	Total  uint64              `json:"total" doc:"Total matches"`
	TookMs int64               `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Matching books"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// ReindexInput contains parameters for rebuilding the index.
type ReindexInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if input.Status != "" && !domain.Status(input.Status).IsValid() {
		return nil, domainerrors.Validationf("estado desconocido: %q", input.Status)
	}

	result, err := s.services.Search.Search(ctx, search.Params{
		UserID: userID,
		Query:  input.Query,
		Status: domain.Status(input.Status),
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResponse, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, SearchHitResponse{
			ID:         hit.ID,
			Score:      hit.Score,
			Title:      hit.Title,
			Author:     hit.Author,
			Status:     string(hit.Status),
			Rating:     hit.Rating,
			Highlights: hit.Highlights,
		})
	}

	return &SearchOutput{Body: SearchResponse{
		Query:  result.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   hits,
	}}, nil
}

func (s *Server) handleReindexSearch(ctx context.Context, _ *ReindexInput) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Search.Rebuild(ctx); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Search index rebuilt"}}, nil
}
