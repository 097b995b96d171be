package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ReportStore handles user reports against posts, comments, and users.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a new ReportStore with the given database connection.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Create files a report. It opens in the open status.
func (s *ReportStore) Create(ctx context.Context, r *models.Report) (*models.Report, error) {
	created := &models.Report{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reports (reporter_id, target_type, target_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, reporter_id, target_type, target_id, reason, status, created_at
	`, r.ReporterID, r.TargetType, r.TargetID, r.Reason).Scan(
		&created.ID, &created.ReporterID, &created.TargetType,
		&created.TargetID, &created.Reason, &created.Status, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return created, nil
}

// List returns reports for the moderation panel, optionally filtered by
// status, newest first.
func (s *ReportStore) List(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = `WHERE r.status = $1`
		args = append(args, status)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.reporter_id, r.target_type, r.target_id, r.reason, r.status, r.created_at,
		       u.username
		FROM reports r
		JOIN users u ON u.id = r.reporter_id
		`+where+`
		ORDER BY r.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(
			&r.ID, &r.ReporterID, &r.TargetType, &r.TargetID,
			&r.Reason, &r.Status, &r.CreatedAt, &r.ReporterUsername,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// SetStatus resolves or dismisses a report.
func (s *ReportStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) error {
	_, err := s.db.ExecContext(ctx, `UPDATE reports SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set report status: %w", err)
	}
	return nil
}
