// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// Stats is the admin analytics snapshot.
type Stats struct {
	TotalUsers     int            `json:"total_users"`
	TotalPosts     int            `json:"total_posts"`
	PostsByStatus  map[string]int `json:"posts_by_status"`
	TotalComments  int            `json:"total_comments"`
	TotalViews     int            `json:"total_views"`
	NewUsers7d     int            `json:"new_users_7d"`
	NewPosts7d     int            `json:"new_posts_7d"`
	OpenReports    int            `json:"open_reports"`
	Subscribers    int            `json:"subscribers"`
	TopPosts       []models.PostSummary `json:"top_posts"`
}

// StatsStore aggregates counts for the admin dashboard.
type StatsStore struct {
	db    *sql.DB
	posts *PostStore
}

// NewStatsStore creates a new StatsStore with the given database connection.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db, posts: NewPostStore(db)}
}

// Snapshot runs the dashboard aggregate queries.
func (s *StatsStore) Snapshot(ctx context.Context) (*Stats, error) {
	stats := &Stats{PostsByStatus: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM comments),
			(SELECT COALESCE(SUM(views), 0) FROM posts),
			(SELECT COUNT(*) FROM users WHERE created_at > NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM posts WHERE created_at > NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM reports WHERE status = 'open'),
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE is_active = TRUE)
	`).Scan(
		&stats.TotalUsers, &stats.TotalPosts, &stats.TotalComments, &stats.TotalViews,
		&stats.NewUsers7d, &stats.NewPosts7d, &stats.OpenReports, &stats.Subscribers,
	)
	if err != nil {
		return nil, fmt.Errorf("stats snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM posts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.PostsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	top, err := s.posts.Trending(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopPosts = top
	return stats, nil
}
