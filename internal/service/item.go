// Package service contains the business logic between the HTTP API and
// the store: item lifecycle, moderation, and search orchestration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/enrich"
	domainerrors "github.com/24061269-star/um-lost-and-found/internal/errors"
	"github.com/24061269-star/um-lost-and-found/internal/id"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

// ItemService handles the reporter-facing item lifecycle.
type ItemService struct {
	store      store.Store
	dispatcher *enrich.Dispatcher
	logger     *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(store store.Store, dispatcher *enrich.Dispatcher, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateItemRequest contains the fields a reporter submits for a new item.
type CreateItemRequest struct {
	Title       string
	Description string
	Kind        domain.ItemKind
	Location    string
	ImageURLs   []string
}

// UpdateItemRequest contains the fields an owner may edit. Nil means unchanged.
type UpdateItemRequest struct {
	Title       *string
	Description *string
	Kind        *domain.ItemKind
	Location    *string
}

// Create stores a new item in pending status and kicks off background
// enrichment. The submitter never waits on the model; the item is visible
// to them (and to moderators) immediately.
func (s *ItemService) Create(ctx context.Context, ownerID string, req CreateItemRequest) (*domain.Item, error) {
	if !req.Kind.Valid() {
		return nil, domainerrors.Validationf("invalid kind %q", req.Kind)
	}

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, fmt.Errorf("generate item id: %w", err)
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          itemID,
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Location:    req.Location,
		OwnerID:     ownerID,
		Status:      domain.ItemStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if len(req.ImageURLs) > 0 {
		if _, err := s.store.AddItemImages(ctx, itemID, req.ImageURLs); err != nil {
			return nil, fmt.Errorf("attach images: %w", err)
		}
	}

	jobID := s.dispatcher.Dispatch(enrich.Request{
		ItemID:      itemID,
		Title:       req.Title,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	})

	s.logger.Info("item created",
		"item_id", itemID,
		"owner_id", ownerID,
		"kind", item.Kind,
		"enrich_job_id", jobID,
	)

	return s.Get(ctx, itemID)
}

// Get returns one item with its images and tags.
func (s *ItemService) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("item not found")
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListMine returns the caller's own items regardless of moderation status.
func (s *ItemService) ListMine(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	items, err := s.store.ListItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	return items, nil
}

// Update edits an item's reporter-owned fields. Only the owner may edit;
// the ownership check lives in the store's conditional UPDATE so there is
// no read-then-write race.
func (s *ItemService) Update(ctx context.Context, itemID, ownerID string, req UpdateItemRequest) (*domain.Item, error) {
	if req.Kind != nil && !req.Kind.Valid() {
		return nil, domainerrors.Validationf("invalid kind %q", *req.Kind)
	}

	update := store.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Location:    req.Location,
	}

	if err := s.store.UpdateItem(ctx, itemID, ownerID, update); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("item not found")
		case errors.Is(err, store.ErrForbidden):
			return nil, domainerrors.Forbidden("only the owner can edit an item")
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	return s.Get(ctx, itemID)
}

// Delete removes an item the caller owns. For someone else's item (or a
// missing one) nothing is deleted and the caller gets a not-found, which
// keeps other people's item ids unguessable.
func (s *ItemService) Delete(ctx context.Context, itemID, ownerID string) error {
	if err := s.store.DeleteItem(ctx, itemID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("item not found")
		}
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.Info("item deleted", "item_id", itemID, "owner_id", ownerID)
	return nil
}
