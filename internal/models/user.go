// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleSubscriber Role = "subscriber"
	RoleAuthor     Role = "author"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
)

// roleRank orders roles by privilege for AtLeast comparisons.
var roleRank = map[Role]int{
	RoleSubscriber: 0,
	RoleAuthor:     1,
	RoleEditor:     2,
	RoleAdmin:      3,
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of min.
// Unknown roles rank below subscriber.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min] && r.Valid()
}

// Privileged reports whether r may moderate content (editor or admin).
func (r Role) Privileged() bool {
	return r == RoleEditor || r == RoleAdmin
}

// User represents an account with authentication, profile, and 2FA fields.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never serialize the hash
	DisplayName    string    `json:"display_name"`
	Bio            *string   `json:"bio,omitempty"`
	Avatar         *string   `json:"avatar,omitempty"`
	Website        *string   `json:"website,omitempty"`
	Twitter        *string   `json:"twitter,omitempty"`
	Github         *string   `json:"github,omitempty"`
	Role           Role      `json:"role"`
	IsVerified     bool      `json:"is_verified"`
	IsSuspended    bool      `json:"is_suspended"`
	VerifyToken    *string   `json:"-"`
	VerifyTokenExp *time.Time `json:"-"`
	TOTPSecret     *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled    bool      `json:"totp_enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Owns reports whether the user owns a resource belonging to authorID.
func (u *User) Owns(authorID uuid.UUID) bool {
	return u.ID == authorID
}

// CanModerate reports whether the user may approve, reject, or edit
// content they do not own.
func (u *User) CanModerate() bool {
	return u.Role.Privileged()
}

// Profile is the public projection of a user, with aggregate counts
// attached by the store.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Bio           *string   `json:"bio,omitempty"`
	Avatar        *string   `json:"avatar,omitempty"`
	Website       *string   `json:"website,omitempty"`
	Twitter       *string   `json:"twitter,omitempty"`
	Github        *string   `json:"github,omitempty"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	FollowerCount int       `json:"follower_count"`
	PostCount     int       `json:"post_count"`
	TotalViews    int       `json:"total_views"`
	TotalComments int       `json:"total_comments"`
}
