package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ActivityStore writes and reads the request activity trail.
type ActivityStore struct {
	db *sql.DB
}

// NewActivityStore creates a new ActivityStore with the given database
// connection.
func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Record writes one activity row. Callers treat failures as non-fatal.
func (s *ActivityStore) Record(ctx context.Context, userID *uuid.UUID, action, ip string, userAgent *string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, action, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
	`, userID, action, ip, userAgent)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// List returns a page of activity rows with usernames joined, newest
// first, plus the total row count.
func (s *ActivityStore) List(ctx context.Context, page, limit int) ([]models.ActivityLog, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.action, a.ip_address, a.user_agent, a.created_at,
		       COALESCE(u.username, '')
		FROM activity_logs a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.IPAddress, &a.UserAgent, &a.CreatedAt, &a.Username); err != nil {
			return nil, 0, fmt.Errorf("scan activity: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, total, rows.Err()
}
