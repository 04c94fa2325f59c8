package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   ItemStatus
		action ModerationAction
		want   ItemStatus
		ok     bool
	}{
		{"approve pending", ItemStatusPending, ModerationApprove, ItemStatusApproved, true},
		{"reject pending", ItemStatusPending, ModerationReject, ItemStatusRejected, true},
		{"approve approved", ItemStatusApproved, ModerationApprove, "", false},
		{"reject approved", ItemStatusApproved, ModerationReject, "", false},
		{"approve rejected", ItemStatusRejected, ModerationApprove, "", false},
		{"reject rejected", ItemStatusRejected, ModerationReject, "", false},
		{"approve claimed", ItemStatusClaimed, ModerationApprove, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Transition(tt.from, tt.action)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestItemStatus_Valid(t *testing.T) {
	for _, s := range []ItemStatus{ItemStatusPending, ItemStatusApproved, ItemStatusRejected, ItemStatusClaimed} {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, ItemStatus("archived").Valid())
	assert.False(t, ItemStatus("").Valid())
}

func TestItemKind_Valid(t *testing.T) {
	assert.True(t, ItemKindLost.Valid())
	assert.True(t, ItemKindFound.Valid())
	assert.False(t, ItemKind("stolen").Valid())
}

func TestItem_PrimaryImageURL(t *testing.T) {
	item := &Item{}
	assert.Empty(t, item.PrimaryImageURL())

	item.Images = []ItemImage{
		{URL: "https://cdn.example.com/a.jpg", Ordinal: 0},
		{URL: "https://cdn.example.com/b.jpg", Ordinal: 1},
	}
	assert.Equal(t, "https://cdn.example.com/a.jpg", item.PrimaryImageURL())
}

func TestProfile_IsAdmin(t *testing.T) {
	admin := &Profile{Role: RoleAdmin}
	member := &Profile{Role: RoleMember}

	assert.True(t, admin.IsAdmin())
	assert.False(t, member.IsAdmin())
}
