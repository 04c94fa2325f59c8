package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/id"
)

// AppendAuditLog writes an append-only audit record.
func (s *Store) AppendAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	entryID := entry.ID
	if entryID == "" {
		var err error
		entryID, err = id.Generate("audit")
		if err != nil {
			return fmt.Errorf("generate audit id: %w", err)
		}
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, entity, entity_id, action, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entryID,
		entry.Entity,
		entry.EntityID,
		entry.Action,
		entry.ActorID,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns all audit records for an entity, oldest first.
func (s *Store) ListAuditLogs(ctx context.Context, entityID string) ([]*domain.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity, entity_id, action, actor_id, created_at
		FROM audit_logs
		WHERE entity_id = ?
		ORDER BY created_at ASC, id ASC`, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditLog
	for rows.Next() {
		var (
			entry     domain.AuditLog
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.Entity, &entry.EntityID, &entry.Action, &entry.ActorID, &createdAt); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*domain.AuditLog{}
	}
	return entries, nil
}
