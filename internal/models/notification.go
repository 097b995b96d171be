package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted as side effects of other mutations.
const (
	NotifyPostApproved = "post_approved"
	NotifyPostRejected = "post_rejected"
	NotifyComment      = "comment"
	NotifyFollow       = "follow"
	NotifyBroadcast    = "broadcast"
)

// Notification is an append-only event record. A nil UserID marks a
// broadcast visible to every authenticated user.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      *string    `json:"link,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}
