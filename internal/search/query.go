package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/paginoid/paginoid-server/internal/domain"
)

// Params configures a shelf search. UserID is mandatory: every query is
// scoped to one owner's shelf.
type Params struct {
	UserID string
	Query  string
	Status domain.Status // Optional status filter
	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults for a user's search.
func DefaultParams(userID string) Params {
	return Params{
		UserID: userID,
		Limit:  20,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single matching book.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author"`
	Status     domain.Status     `json:"status"`
	Rating     int               `json:"rating"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a query over one owner's shelf.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"id", "title", "author", "status", "rating"}

	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.AddField("title")
	searchRequest.Highlight.AddField("author")

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := Hit{Score: hit.Score}

		if v, ok := hit.Fields["id"].(string); ok {
			searchHit.ID = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = v
		}
		if v, ok := hit.Fields["status"].(string); ok {
			searchHit.Status = domain.Status(v)
		}
		if v, ok := hit.Fields["rating"].(float64); ok {
			searchHit.Rating = int(v)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params. The owner term is
// a conjunction with everything else, so results can never leak across users.
func buildSearchQuery(params Params) query.Query {
	ownerQuery := bleve.NewTermQuery(params.UserID)
	ownerQuery.SetField("user_id")

	queries := []query.Query{ownerQuery}

	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)
		textQueries = append(textQueries, authorMatch)

		reviewMatch := bleve.NewMatchQuery(params.Query)
		reviewMatch.SetField("review")
		textQueries = append(textQueries, reviewMatch)

		// Fuzzy matching for typo tolerance on the title
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Status != "" {
		statusQuery := bleve.NewTermQuery(string(params.Status))
		statusQuery.SetField("status")
		queries = append(queries, statusQuery)
	}

	return bleve.NewConjunctionQuery(queries...)
}
