package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// StatusLogStore appends to and reads the post status audit trail. Rows
// are never updated or deleted.
type StatusLogStore struct {
	db *sql.DB
}

// NewStatusLogStore creates a new StatusLogStore with the given database
// connection.
func NewStatusLogStore(db *sql.DB) *StatusLogStore {
	return &StatusLogStore{db: db}
}

// Append writes one audit row.
func (s *StatusLogStore) Append(ctx context.Context, entry *models.PostStatusLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO post_status_log (post_id, changed_by, old_status, new_status, note)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.PostID, entry.ChangedBy, entry.OldStatus, entry.NewStatus, entry.Note)
	if err != nil {
		return fmt.Errorf("append status log: %w", err)
	}
	return nil
}

// ListByPost returns a post's transition history, newest first.
func (s *StatusLogStore) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.PostStatusLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, changed_by, old_status, new_status, note, created_at
		FROM post_status_log
		WHERE post_id = $1
		ORDER BY created_at DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list status log: %w", err)
	}
	defer rows.Close()

	var entries []models.PostStatusLog
	for rows.Next() {
		var e models.PostStatusLog
		if err := rows.Scan(&e.ID, &e.PostID, &e.ChangedBy, &e.OldStatus, &e.NewStatus, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
