// Package domain defines the core entities for the lost-and-found service.
package domain

import "time"

// ItemKind distinguishes lost reports from found reports.
type ItemKind string

const (
	// ItemKindLost marks an item reported as lost by its owner.
	ItemKindLost ItemKind = "lost"
	// ItemKindFound marks an item someone found and handed in.
	ItemKindFound ItemKind = "found"
)

// Valid returns true for a recognized kind.
func (k ItemKind) Valid() bool {
	return k == ItemKindLost || k == ItemKindFound
}

// ItemStatus represents the moderation state gating public visibility.
type ItemStatus string

const (
	// ItemStatusPending is the initial state of every submission.
	ItemStatusPending ItemStatus = "pending"
	// ItemStatusApproved makes the item publicly searchable.
	ItemStatusApproved ItemStatus = "approved"
	// ItemStatusRejected hides the item from public search permanently.
	ItemStatusRejected ItemStatus = "rejected"
	// ItemStatusClaimed is reserved for items returned to their owner.
	// No transition into it is wired up yet; the state exists so stored
	// data stays valid once the claim flow lands.
	ItemStatusClaimed ItemStatus = "claimed"
)

// Valid returns true for a recognized status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusApproved, ItemStatusRejected, ItemStatusClaimed:
		return true
	}
	return false
}

// ModerationAction is an admin decision on a pending item.
type ModerationAction string

const (
	// ModerationApprove publishes the item.
	ModerationApprove ModerationAction = "approve"
	// ModerationReject hides the item.
	ModerationReject ModerationAction = "reject"
)

// moderationTransitions is the table of legal (fromState, action) -> toState
// pairs. Anything not listed is an illegal transition.
var moderationTransitions = map[ItemStatus]map[ModerationAction]ItemStatus{
	ItemStatusPending: {
		ModerationApprove: ItemStatusApproved,
		ModerationReject:  ItemStatusRejected,
	},
}

// Transition returns the resulting status for applying action to the current
// status. ok is false when the transition is illegal (e.g. approving an
// already-rejected item).
func Transition(from ItemStatus, action ModerationAction) (ItemStatus, bool) {
	to, ok := moderationTransitions[from][action]
	return to, ok
}

// Item is a lost/found report with moderated visibility.
// Only the owner may mutate it; Status is the sole visibility gate.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Kind        ItemKind   `json:"kind"`
	Location    string     `json:"location,omitempty"`
	OwnerID     string     `json:"owner_id"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Joined rows, populated by store reads that need them.
	Images []ItemImage `json:"images,omitempty"`
	Tags   []string    `json:"tags,omitempty"`
}

// PrimaryImageURL returns the URL of the first image by ordinal,
// or empty when the item has no images.
func (i *Item) PrimaryImageURL() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0].URL
}

// ItemImage is a stored reference to an uploaded photo of an item.
// Ordinal 0 is the primary image.
type ItemImage struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	URL       string    `json:"url"`
	Ordinal   int       `json:"ordinal"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemTag is an AI-derived lowercase token attached to an item.
type ItemTag struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemEmbedding is the semantic vector for an item. One current embedding
// per item; re-enrichment replaces it.
type ItemEmbedding struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Vector    []float32 `json:"-"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
