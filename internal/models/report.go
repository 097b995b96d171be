package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus tracks moderation handling of a user report.
type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is a user-submitted flag against a post, comment, or user.
type Report struct {
	ID               uuid.UUID    `json:"id"`
	ReporterID       uuid.UUID    `json:"reporter_id"`
	TargetType       string       `json:"target_type"`
	TargetID         uuid.UUID    `json:"target_id"`
	Reason           string       `json:"reason"`
	Status           ReportStatus `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	ReporterUsername string       `json:"reporter_username,omitempty"`
}
