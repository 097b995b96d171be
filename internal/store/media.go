// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// MediaStore handles upload metadata rows. The bytes live on the static
// mount (and optionally S3); only metadata lives in the database.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// Create inserts an upload record.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	created := &models.Media{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO media (user_id, filename, original_name, mime_type, size, url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, filename, original_name, mime_type, size, url, created_at
	`, m.UserID, m.Filename, m.OriginalName, m.MimeType, m.Size, m.URL).Scan(
		&created.ID, &created.UserID, &created.Filename, &created.OriginalName,
		&created.MimeType, &created.Size, &created.URL, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves an upload record. Returns nil if not found.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m := &models.Media{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, original_name, mime_type, size, url, created_at
		FROM media WHERE id = $1
	`, id).Scan(&m.ID, &m.UserID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size, &m.URL, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// ListByUser returns the user's uploads, newest first.
func (s *MediaStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Media, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, original_name, mime_type, size, url, created_at
		FROM media WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.UserID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size, &m.URL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Delete removes an upload record.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
