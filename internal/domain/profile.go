package domain

import "time"

// Role represents a member's permission level in the system.
type Role string

const (
	// RoleAdmin grants moderation access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard reporting access.
	RoleMember Role = "member"
)

// Profile is the server-side record for a member. The role stored here is
// the authoritative admin capability; client-supplied role claims are only
// ever UI hints.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin returns true if the profile carries the admin capability.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// AuditLog is an append-only record of a moderation decision.
type AuditLog struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
