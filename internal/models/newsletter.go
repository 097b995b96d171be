package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a newsletter recipient. Unsubscribing flips IsActive
// instead of deleting the row.
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
