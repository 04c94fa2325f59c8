package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPendingItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/items",
		Summary:     "List pending items",
		Description: "Returns the moderation queue of pending items",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPendingItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "approveItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/items/{id}/approve",
		Summary:     "Approve item",
		Description: "Makes a pending item publicly visible",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleApproveItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "rejectItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/items/{id}/reject",
		Summary:     "Reject item",
		Description: "Hides a pending item from the public listing",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRejectItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItemAuditTrail",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/items/{id}/audit",
		Summary:     "Get item audit trail",
		Description: "Returns the moderation history of an item",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetItemAuditTrail)
}

// === DTOs ===

// ListPendingItemsInput contains parameters for listing the moderation queue.
type ListPendingItemsInput struct {
	Authorization string `header:"Authorization"`
}

// ModerateItemInput contains parameters for a moderation decision.
type ModerateItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// AuditLogResponse contains one audit trail entry.
type AuditLogResponse struct {
	ID        string    `json:"id" doc:"Entry ID"`
	Action    string    `json:"action" doc:"Moderation action"`
	ActorID   string    `json:"actor_id" doc:"Admin who made the decision"`
	CreatedAt time.Time `json:"created_at" doc:"Decision time"`
}

// AuditTrailResponse contains an item's moderation history.
type AuditTrailResponse struct {
	Entries []AuditLogResponse `json:"entries" doc:"Audit entries, oldest first"`
}

// AuditTrailOutput wraps the audit trail response for Huma.
type AuditTrailOutput struct {
	Body AuditTrailResponse
}

// === Handlers ===

func (s *Server) handleListPendingItems(ctx context.Context, _ *ListPendingItemsInput) (*ListItemsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Moderation.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{Body: ListItemsResponse{Items: toItemResponses(items)}}, nil
}

func (s *Server) handleApproveItem(ctx context.Context, input *ModerateItemInput) (*ItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Moderation.Approve(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleRejectItem(ctx context.Context, input *ModerateItemInput) (*ItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Moderation.Reject(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleGetItemAuditTrail(ctx context.Context, input *ModerateItemInput) (*AuditTrailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Moderation.AuditTrail(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		resp[i] = AuditLogResponse{
			ID:        e.ID,
			Action:    e.Action,
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt,
		}
	}

	return &AuditTrailOutput{Body: AuditTrailResponse{Entries: resp}}, nil
}
