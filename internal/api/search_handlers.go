package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/24061269-star/um-lost-and-found/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchItems",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search items",
		Description: "Searches approved items by keyword, tags, or a query image. An image query is captioned and matched semantically; a keyword alone is embedded; with neither this browses the newest approved items.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchRequest is the request body for a search query. All fields are optional.
type SearchRequest struct {
	Keyword  string   `json:"keyword,omitempty" validate:"omitempty,max=200" doc:"Free-text query"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=40" doc:"Tag filter, OR semantics"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url" doc:"Query image URL"`
	Limit    int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=50" doc:"Maximum number of results"`
}

// SearchInput wraps the search request for Huma.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Body          SearchRequest
}

// SearchResultResponse pairs an item with its query similarity.
type SearchResultResponse struct {
	Item       ItemResponse `json:"item" doc:"Matched item"`
	Similarity *float64     `json:"similarity,omitempty" doc:"Cosine similarity to the query, absent on browse"`
	Image      string       `json:"image,omitempty" doc:"Primary image URL"`
}

// SearchResponse contains ranked search results.
type SearchResponse struct {
	Results []SearchResultResponse `json:"results" doc:"Ranked results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	results, err := s.services.Search.Search(ctx, service.SearchRequest{
		Keyword:  input.Body.Keyword,
		Tags:     input.Body.Tags,
		ImageURL: input.Body.ImageURL,
		Limit:    input.Body.Limit,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]SearchResultResponse, len(results))
	for i, r := range results {
		resp[i] = SearchResultResponse{
			Item:       toItemResponse(r.Item),
			Similarity: r.Similarity,
			Image:      r.Image,
		}
	}

	return &SearchOutput{Body: SearchResponse{Results: resp}}, nil
}
