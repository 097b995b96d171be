package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog records a state-changing request, written best-effort by
// the activity middleware.
type ActivityLog struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Action    string     `json:"action"`
	IPAddress string     `json:"ip_address"`
	UserAgent *string    `json:"user_agent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Username  string     `json:"username,omitempty"`
}
