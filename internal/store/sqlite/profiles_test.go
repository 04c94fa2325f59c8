package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

func TestGetProfile_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProfile(context.Background(), "nobody")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &domain.Profile{
		ID:          "user-1",
		DisplayName: "Aisyah",
		Email:       "aisyah@example.edu",
		Role:        domain.RoleMember,
	}
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Role != domain.RoleMember {
		t.Errorf("Role: got %q, want member", got.Role)
	}
	if got.IsAdmin() {
		t.Error("member profile reports admin")
	}

	// Promotion updates the existing row.
	p.Role = domain.RoleAdmin
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile promote: %v", err)
	}

	got, err = s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile after promote: %v", err)
	}
	if !got.IsAdmin() {
		t.Error("promoted profile should report admin")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 profile row, got %d", count)
	}
}

func TestAuditLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []*domain.AuditLog{
		{Entity: "item", EntityID: "item-1", Action: "approve", ActorID: "admin-1"},
		{Entity: "item", EntityID: "item-1", Action: "reject", ActorID: "admin-2"},
		{Entity: "item", EntityID: "item-2", Action: "approve", ActorID: "admin-1"},
	}
	for _, e := range entries {
		if err := s.AppendAuditLog(ctx, e); err != nil {
			t.Fatalf("AppendAuditLog: %v", err)
		}
	}

	got, err := s.ListAuditLogs(ctx, "item-1")
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Action != "approve" || got[1].Action != "reject" {
		t.Errorf("order: got %s,%s want approve,reject", got[0].Action, got[1].Action)
	}
	if got[0].ID == "" {
		t.Error("entry id was not assigned")
	}

	// Unknown entity yields an empty, non-nil slice.
	got, err = s.ListAuditLogs(ctx, "item-none")
	if err != nil {
		t.Fatalf("ListAuditLogs miss: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}
