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

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// ListByPost returns the approved comments of a post with author identity
// joined in, oldest first so threads read top down.
func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.parent_id, c.content, c.is_approved, c.created_at,
		       u.username, u.display_name, u.avatar
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1 AND c.is_approved = TRUE
		ORDER BY c.created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Content, &c.IsApproved, &c.CreatedAt,
			&c.Username, &c.DisplayName, &c.Avatar,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// FindByID retrieves a comment by UUID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, post_id, user_id, parent_id, content, is_approved, created_at
		FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Content, &c.IsApproved, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment and returns it with author identity joined in.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	created := &models.Comment{}
	err := s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO comments (post_id, user_id, parent_id, content)
			VALUES ($1, $2, $3, $4)
			RETURNING id, post_id, user_id, parent_id, content, is_approved, created_at
		)
		SELECT i.id, i.post_id, i.user_id, i.parent_id, i.content, i.is_approved, i.created_at,
		       u.username, u.display_name, u.avatar
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`, c.PostID, c.UserID, c.ParentID, c.Content).Scan(
		&created.ID, &created.PostID, &created.UserID, &created.ParentID,
		&created.Content, &created.IsApproved, &created.CreatedAt,
		&created.Username, &created.DisplayName, &created.Avatar,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// Delete removes a comment. Replies cascade.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// SetApproved flips comment visibility. Moderator operation.
func (s *CommentStore) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE comments SET is_approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return fmt.Errorf("set comment approved: %w", err)
	}
	return nil
}
