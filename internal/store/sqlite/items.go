package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/id"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, title, description, kind, location, owner_id, status, created_at, updated_at`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Item.
// Images and Tags are left empty; callers attach them when needed.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var it domain.Item

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&it.ID,
		&it.Title,
		&it.Description,
		&it.Kind,
		&it.Location,
		&it.OwnerID,
		&it.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	it.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &it, nil
}

// CreateItem inserts a new item row.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, title, description, kind, location, owner_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Title,
		item.Description,
		string(item.Kind),
		item.Location,
		item.OwnerID,
		string(item.Status),
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID with its images and tags joined.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, itemID)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("item not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachImagesAndTags(ctx, []*domain.Item{it}); err != nil {
		return nil, err
	}
	return it, nil
}

// ListItemsByOwner returns all items owned by ownerID, newest first.
func (s *Store) ListItemsByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	return s.listItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
}

// ListItemsByStatus returns all items in the given status, newest first.
// Used by the admin moderation queue.
func (s *Store) ListItemsByStatus(ctx context.Context, status domain.ItemStatus) ([]*domain.Item, error) {
	return s.listItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE status = ? ORDER BY created_at DESC`, string(status))
}

// ListApprovedItems returns approved items narrowed by the query.
// A non-nil empty IDs slice yields an empty result.
func (s *Store) ListApprovedItems(ctx context.Context, q store.ApprovedQuery) ([]*domain.Item, error) {
	if q.IDs != nil && len(q.IDs) == 0 {
		return []*domain.Item{}, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + itemColumns + ` FROM items WHERE status = 'approved'`)
	args := []any{}

	if q.IDs != nil {
		sb.WriteString(` AND id IN (?` + strings.Repeat(",?", len(q.IDs)-1) + `)`)
		for _, itemID := range q.IDs {
			args = append(args, itemID)
		}
	}

	if q.Keyword != "" {
		sb.WriteString(` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`)
		pattern := "%" + strings.ToLower(q.Keyword) + "%"
		args = append(args, pattern, pattern)
	}

	sb.WriteString(` ORDER BY created_at DESC`)

	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	return s.listItems(ctx, sb.String(), args...)
}

// listItems runs an item query and attaches images/tags to every row.
func (s *Store) listItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.Item{}
	}

	if err := s.attachImagesAndTags(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// attachImagesAndTags populates Images and Tags for the given items.
func (s *Store) attachImagesAndTags(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Item, len(items))
	args := make([]any, 0, len(items))
	for _, it := range items {
		byID[it.ID] = it
		args = append(args, it.ID)
	}
	placeholders := "?" + strings.Repeat(",?", len(items)-1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, url, ordinal, created_at
		FROM item_images
		WHERE item_id IN (`+placeholders+`)
		ORDER BY item_id, ordinal ASC`, args...)
	if err != nil {
		return fmt.Errorf("query item images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ItemImage
		var createdAt string
		if err := rows.Scan(&img.ID, &img.ItemID, &img.URL, &img.Ordinal, &createdAt); err != nil {
			return err
		}
		if img.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if it, ok := byID[img.ItemID]; ok {
			it.Images = append(it.Images, img)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT item_id, tag
		FROM item_tags
		WHERE item_id IN (`+placeholders+`)
		ORDER BY item_id, created_at ASC, id ASC`, args...)
	if err != nil {
		return fmt.Errorf("query item tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var itemID, tag string
		if err := tagRows.Scan(&itemID, &tag); err != nil {
			return err
		}
		if it, ok := byID[itemID]; ok {
			it.Tags = append(it.Tags, tag)
		}
	}
	return tagRows.Err()
}

// UpdateItem mutates the owner-editable fields of an item owned by ownerID.
// Returns store.ErrNotFound when the item is absent and store.ErrForbidden
// when it belongs to a different owner.
func (s *Store) UpdateItem(ctx context.Context, itemID, ownerID string, update store.ItemUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Kind != nil {
		sets = append(sets, "kind = ?")
		args = append(args, string(*update.Kind))
	}
	if update.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *update.Location)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), itemID, ownerID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.classifyOwnershipMiss(ctx, itemID)
	}
	return nil
}

// DeleteItem removes an item owned by ownerID. Dependent images, tags and
// embeddings cascade. A non-owner delete affects zero rows and returns
// store.ErrNotFound without revealing whether the item exists.
func (s *Store) DeleteItem(ctx context.Context, itemID, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND owner_id = ?`, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("item not found")
	}
	return nil
}

// UpdateItemStatus transitions an item's status from exactly `from` to `to`.
// The conditional UPDATE makes the precondition atomic under concurrent
// moderation. Returns store.ErrConflict when the current status differs,
// store.ErrNotFound when the item is absent.
func (s *Store) UpdateItemStatus(ctx context.Context, itemID string, from, to domain.ItemStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), formatTime(time.Now()), itemID, string(from))
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM items WHERE id = ?`, itemID).Scan(&current)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("item not found")
	}
	if err != nil {
		return err
	}
	return store.ErrConflict.WithMessage(fmt.Sprintf("item is %s, expected %s", current, from))
}

// AddItemImages appends image rows for an item, continuing the ordinal
// sequence. The first image ever inserted is the primary one.
func (s *Store) AddItemImages(ctx context.Context, itemID string, urls []string) ([]domain.ItemImage, error) {
	if len(urls) == 0 {
		return []domain.ItemImage{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordinal) + 1, 0) FROM item_images WHERE item_id = ?`, itemID).Scan(&next)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	images := make([]domain.ItemImage, 0, len(urls))
	for i, url := range urls {
		imageID, err := id.Generate("img")
		if err != nil {
			return nil, fmt.Errorf("generate image id: %w", err)
		}
		img := domain.ItemImage{
			ID:        imageID,
			ItemID:    itemID,
			URL:       url,
			Ordinal:   next + i,
			CreatedAt: now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item_images (id, item_id, url, ordinal, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			img.ID, img.ItemID, img.URL, img.Ordinal, formatTime(img.CreatedAt))
		if err != nil {
			return nil, fmt.Errorf("insert item image: %w", err)
		}
		images = append(images, img)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return images, nil
}

// classifyOwnershipMiss distinguishes a missing item from a foreign one
// after an ownership-scoped write affected zero rows.
func (s *Store) classifyOwnershipMiss(ctx context.Context, itemID string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM items WHERE id = ?`, itemID).Scan(&owner)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("item not found")
	}
	if err != nil {
		return err
	}
	return store.ErrForbidden.WithMessage("item belongs to another member")
}
