// Package store defines the persistence contract for the lost-and-found
// service and the errors its implementations return.
package store

import (
	"context"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
)

// ItemUpdate carries the owner-editable fields of an item.
// Nil pointers leave the stored value untouched.
type ItemUpdate struct {
	Title       *string
	Description *string
	Kind        *domain.ItemKind
	Location    *string
}

// ApprovedQuery narrows a listing of approved items.
type ApprovedQuery struct {
	// IDs restricts results to this id set when non-nil.
	// A non-nil empty slice yields no results.
	IDs []string
	// Keyword applies a case-insensitive substring match on title or
	// description. Empty means no keyword filter.
	Keyword string
	// Limit bounds the result count; 0 means the store default.
	Limit int
}

// EmbeddingMatch is a nearest-neighbor hit against stored item embeddings.
type EmbeddingMatch struct {
	ItemID     string
	Similarity float64
}

// Store is the persistence contract consumed by the services.
// *sqlite.Store is the production implementation.
type Store interface {
	// Items. CreateItem persists the item as given (the service forces
	// pending status and timestamps). GetItem joins images and tags.
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error)
	ListItemsByStatus(ctx context.Context, status domain.ItemStatus) ([]*domain.Item, error)
	ListApprovedItems(ctx context.Context, q ApprovedQuery) ([]*domain.Item, error)

	// UpdateItem mutates only rows owned by ownerID. Returns ErrForbidden
	// when the item exists but belongs to someone else, ErrNotFound when
	// it does not exist.
	UpdateItem(ctx context.Context, itemID, ownerID string, update ItemUpdate) error

	// DeleteItem removes the item and, via cascade, its images, tags and
	// embedding. A request for an item not owned by ownerID affects zero
	// rows and returns ErrNotFound; the caller cannot learn whether the
	// item exists under another owner.
	DeleteItem(ctx context.Context, itemID, ownerID string) error

	// UpdateItemStatus transitions status from exactly `from` to `to`.
	// Returns ErrConflict when the current status differs from `from`,
	// ErrNotFound when the item is absent.
	UpdateItemStatus(ctx context.Context, itemID string, from, to domain.ItemStatus) error

	// Images.
	AddItemImages(ctx context.Context, itemID string, urls []string) ([]domain.ItemImage, error)

	// Enrichment output. ReplaceItemTags swaps the full tag set in one
	// transaction; UpsertItemEmbedding keeps at most one embedding per item.
	ReplaceItemTags(ctx context.Context, itemID string, tags []string) error
	UpsertItemEmbedding(ctx context.Context, emb *domain.ItemEmbedding) error
	GetItemEmbedding(ctx context.Context, itemID string) (*domain.ItemEmbedding, error)

	// Search primitives.
	ListItemIDsWithAnyTag(ctx context.Context, tags []string) ([]string, error)
	NearestEmbeddings(ctx context.Context, query []float32, limit int) ([]EmbeddingMatch, error)

	// Profiles.
	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, p *domain.Profile) error

	// Audit.
	AppendAuditLog(ctx context.Context, entry *domain.AuditLog) error
	ListAuditLogs(ctx context.Context, entityID string) ([]*domain.AuditLog, error)
}
