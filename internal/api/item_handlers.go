package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createItem",
		Method:        http.MethodPost,
		Path:          "/api/v1/items",
		Summary:       "Report item",
		Description:   "Reports a lost or found item. The item starts in pending status and is enriched in the background.",
		Tags:          []string{"Items"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List items",
		Description: "Lists approved items, or the caller's own items in any status with mine=true",
		Tags:        []string{"Items"},
	}, s.handleListItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get item",
		Description: "Returns an item by ID with its images and tags",
		Tags:        []string{"Items"},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Updates an item's reporter-owned fields. Only the owner may edit.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Description: "Deletes an item the caller owns",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteItem)
}

// === DTOs ===

// ItemImageResponse contains one stored item photo.
type ItemImageResponse struct {
	URL     string `json:"url" doc:"Image URL"`
	Ordinal int    `json:"ordinal" doc:"Display order, 0 is primary"`
}

// ItemResponse contains item data in API responses.
type ItemResponse struct {
	ID          string              `json:"id" doc:"Item ID"`
	Title       string              `json:"title" doc:"Short title"`
	Description string              `json:"description,omitempty" doc:"Longer free-text description"`
	Kind        string              `json:"kind" doc:"lost or found"`
	Location    string              `json:"location,omitempty" doc:"Where the item was lost or found"`
	OwnerID     string              `json:"owner_id" doc:"Reporting user ID"`
	Status      string              `json:"status" doc:"Moderation status"`
	Tags        []string            `json:"tags,omitempty" doc:"AI-derived tags"`
	Images      []ItemImageResponse `json:"images,omitempty" doc:"Attached photos"`
	CreatedAt   time.Time           `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time           `json:"updated_at" doc:"Last update time"`
}

// ItemOutput wraps the item response for Huma.
type ItemOutput struct {
	Body ItemResponse
}

// CreateItemRequest is the request body for reporting an item.
type CreateItemRequest struct {
	Title       string   `json:"title" validate:"required,max=140" doc:"Short title"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Longer free-text description"`
	Kind        string   `json:"kind" validate:"required,oneof=lost found" doc:"lost or found"`
	Location    string   `json:"location" validate:"required,max=200" doc:"Where the item was lost or found"`
	ImageURLs   []string `json:"image_urls,omitempty" validate:"omitempty,max=6,dive,url" doc:"Photo URLs, first is primary"`
}

// CreateItemInput wraps the create item request for Huma.
type CreateItemInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateItemRequest
}

// ListItemsInput contains parameters for listing items.
type ListItemsInput struct {
	Authorization string `header:"Authorization"`
	Mine          bool   `query:"mine" doc:"List the caller's own items in any status"`
	Limit         int    `query:"limit" doc:"Maximum number of items to return"`
}

// ListItemsResponse contains a list of items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items" doc:"List of items"`
}

// ListItemsOutput wraps the list items response for Huma.
type ListItemsOutput struct {
	Body ListItemsResponse
}

// GetItemInput contains parameters for getting an item.
type GetItemInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// UpdateItemRequest is the request body for updating an item.
type UpdateItemRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=140" doc:"Short title"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Longer free-text description"`
	Kind        *string `json:"kind,omitempty" validate:"omitempty,oneof=lost found" doc:"lost or found"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=200" doc:"Where the item was lost or found"`
}

// UpdateItemInput wraps the update item request for Huma.
type UpdateItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
	Body          UpdateItemRequest
}

// DeleteItemInput contains parameters for deleting an item.
type DeleteItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// === Handlers ===

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Item.Create(ctx, userID, service.CreateItemRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Kind:        domain.ItemKind(input.Body.Kind),
		Location:    input.Body.Location,
		ImageURLs:   input.Body.ImageURLs,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleListItems(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	if input.Mine {
		userID, err := GetUserID(ctx)
		if err != nil {
			return nil, err
		}

		items, err := s.services.Item.ListMine(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ListItemsOutput{Body: ListItemsResponse{Items: toItemResponses(items)}}, nil
	}

	// Public browse is an empty search: newest approved items first.
	results, err := s.services.Search.Search(ctx, service.SearchRequest{Limit: input.Limit})
	if err != nil {
		return nil, err
	}

	items := make([]ItemResponse, len(results))
	for i, r := range results {
		items[i] = toItemResponse(r.Item)
	}
	return &ListItemsOutput{Body: ListItemsResponse{Items: items}}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	item, err := s.services.Item.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	req := service.UpdateItemRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Location:    input.Body.Location,
	}
	if input.Body.Kind != nil {
		kind := domain.ItemKind(*input.Body.Kind)
		req.Kind = &kind
	}

	item, err := s.services.Item.Update(ctx, input.ID, userID, req)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *DeleteItemInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Item.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Item deleted"}}, nil
}

// toItemResponse maps a domain item onto the wire shape.
func toItemResponse(item *domain.Item) ItemResponse {
	images := make([]ItemImageResponse, len(item.Images))
	for i, img := range item.Images {
		images[i] = ItemImageResponse{URL: img.URL, Ordinal: img.Ordinal}
	}

	return ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Kind:        string(item.Kind),
		Location:    item.Location,
		OwnerID:     item.OwnerID,
		Status:      string(item.Status),
		Tags:        item.Tags,
		Images:      images,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func toItemResponses(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}
