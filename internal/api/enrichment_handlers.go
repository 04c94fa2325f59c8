package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/24061269-star/um-lost-and-found/internal/enrich"
)

func (s *Server) registerEnrichmentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "processItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/ai/process",
		Summary:     "Enrich item",
		Description: "Runs the AI enrichment pass for an item synchronously: tag generation and embedding creation. Re-running converges; tags and embedding are replaced, not accumulated.",
		Tags:        []string{"AI"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleProcessItem)
}

// === DTOs ===

// ProcessItemRequest is the request body for a manual enrichment pass.
// Text and image fields override the stored item when provided.
type ProcessItemRequest struct {
	ItemID      string   `json:"item_id" validate:"required" doc:"Item to enrich"`
	Title       string   `json:"title,omitempty" validate:"omitempty,max=140" doc:"Title override"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Description override"`
	ImageURLs   []string `json:"image_urls,omitempty" validate:"omitempty,max=6,dive,url" doc:"Image URL overrides"`
}

// ProcessItemInput wraps the process request for Huma.
type ProcessItemInput struct {
	Authorization string `header:"Authorization"`
	Body          ProcessItemRequest
}

// ProcessItemResponse reports the outcome of an enrichment pass.
type ProcessItemResponse struct {
	OK        bool `json:"ok" doc:"Whether enrichment completed"`
	TagsCount int  `json:"tags_count" doc:"Number of tags stored"`
}

// ProcessItemOutput wraps the process response for Huma.
type ProcessItemOutput struct {
	Body ProcessItemResponse
}

// === Handlers ===

func (s *Server) handleProcessItem(ctx context.Context, input *ProcessItemInput) (*ProcessItemOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Item.Get(ctx, input.Body.ItemID)
	if err != nil {
		return nil, err
	}

	req := enrich.Request{
		ItemID:      item.ID,
		Title:       item.Title,
		Description: item.Description,
	}
	for _, img := range item.Images {
		req.ImageURLs = append(req.ImageURLs, img.URL)
	}
	if input.Body.Title != "" {
		req.Title = input.Body.Title
	}
	if input.Body.Description != "" {
		req.Description = input.Body.Description
	}
	if len(input.Body.ImageURLs) > 0 {
		req.ImageURLs = input.Body.ImageURLs
	}

	tagsCount, err := s.services.Enrich.Enrich(ctx, req)
	if err != nil {
		return nil, err
	}

	return &ProcessItemOutput{Body: ProcessItemResponse{OK: true, TagsCount: tagsCount}}, nil
}
