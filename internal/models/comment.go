package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a post and a user. ParentID forms a one-level thread
// by convention; nesting depth is not enforced by the schema.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	PostID     uuid.UUID  `json:"post_id"`
	UserID     uuid.UUID  `json:"user_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Content    string     `json:"content"`
	IsApproved bool       `json:"is_approved"`
	CreatedAt  time.Time  `json:"created_at"`

	// Author identity, joined in by the store for listings.
	Username    string  `json:"username,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}
