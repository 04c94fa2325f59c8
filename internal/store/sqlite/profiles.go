package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

// GetProfile retrieves a member profile by ID.
// Returns store.ErrNotFound if the profile does not exist.
func (s *Store) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, role, created_at, updated_at
		FROM profiles WHERE id = ?`, profileID)

	var (
		p         domain.Profile
		createdAt string
		updatedAt string
	)
	err := row.Scan(&p.ID, &p.DisplayName, &p.Email, &p.Role, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("profile not found")
	}
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates or updates a member profile.
// The identity provider owns authentication; this row carries the
// authoritative role attribute.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	now := time.Now().UTC()
	created := p.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, display_name, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			role = excluded.role,
			updated_at = excluded.updated_at`,
		p.ID,
		p.DisplayName,
		p.Email,
		string(p.Role),
		formatTime(created),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
