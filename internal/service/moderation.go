package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	domainerrors "github.com/24061269-star/um-lost-and-found/internal/errors"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

// ModerationService gates items between submission and public visibility.
// Admin capability comes from the caller's stored profile; nothing the
// client sends about its own role is trusted.
type ModerationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewModerationService creates a new moderation service.
func NewModerationService(store store.Store, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		store:  store,
		logger: logger,
	}
}

// Approve makes a pending item publicly visible.
func (s *ModerationService) Approve(ctx context.Context, itemID, actorID string) (*domain.Item, error) {
	return s.moderate(ctx, itemID, actorID, domain.ModerationApprove)
}

// Reject hides a pending item from the public listing.
func (s *ModerationService) Reject(ctx context.Context, itemID, actorID string) (*domain.Item, error) {
	return s.moderate(ctx, itemID, actorID, domain.ModerationReject)
}

// ListPending returns the moderation queue, oldest submissions last
// (store order is newest first, matching the admin review page).
func (s *ModerationService) ListPending(ctx context.Context, actorID string) ([]*domain.Item, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	items, err := s.store.ListItemsByStatus(ctx, domain.ItemStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending items: %w", err)
	}
	return items, nil
}

// AuditTrail returns the moderation history of an item.
func (s *ModerationService) AuditTrail(ctx context.Context, actorID, itemID string) ([]*domain.AuditLog, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListAuditLogs(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}

func (s *ModerationService) moderate(ctx context.Context, itemID, actorID string, action domain.ModerationAction) (*domain.Item, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("item not found")
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	to, ok := domain.Transition(item.Status, action)
	if !ok {
		return nil, domainerrors.Conflictf("item is %s, only pending items can be moderated", item.Status)
	}

	// The store re-checks the source status, so a racing moderator
	// surfaces as a conflict instead of a double transition.
	if err := s.store.UpdateItemStatus(ctx, itemID, item.Status, to); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("item not found")
		case errors.Is(err, store.ErrConflict):
			return nil, domainerrors.Conflict(err.Error())
		}
		return nil, fmt.Errorf("update item status: %w", err)
	}

	// Best effort: a failed audit write never undoes the moderation.
	audit := &domain.AuditLog{
		Entity:   "item",
		EntityID: itemID,
		Action:   string(action),
		ActorID:  actorID,
	}
	if err := s.store.AppendAuditLog(ctx, audit); err != nil {
		s.logger.Warn("audit log write failed",
			"item_id", itemID,
			"action", action,
			"error", err,
		)
	}

	s.logger.Info("item moderated",
		"item_id", itemID,
		"action", action,
		"actor_id", actorID,
	)

	item.Status = to
	return item, nil
}

// requireAdmin resolves the actor's role from their stored profile.
// A missing profile reads the same as a non-admin one.
func (s *ModerationService) requireAdmin(ctx context.Context, actorID string) error {
	profile, err := s.store.GetProfile(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Forbidden("admin capability required")
		}
		return fmt.Errorf("get profile: %w", err)
	}
	if !profile.IsAdmin() {
		return domainerrors.Forbidden("admin capability required")
	}
	return nil
}
