// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed inserts development data: one user per role, a handful of
// categories and tags, and two published posts. It is a no-op when users
// already exist, so repeated startups are safe.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("seed count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed hash password: %w", err)
	}

	users := []struct {
		username, email, displayName, role string
	}{
		{"admin", "admin@inkwell.local", "Site Admin", "admin"},
		{"editor", "editor@inkwell.local", "Managing Editor", "editor"},
		{"jane", "jane@inkwell.local", "Jane Doe", "author"},
		{"john", "john@inkwell.local", "John Doe", "subscriber"},
	}
	for _, u := range users {
		_, err := db.Exec(`
			INSERT INTO users (username, email, password_hash, display_name, role, is_verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, u.username, u.email, string(hash), u.displayName, u.role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	categories := []struct{ name, slug, color string }{
		{"Artificial Intelligence", "artificial-intelligence", "#6366f1"},
		{"Web Development", "web-development", "#06b6d4"},
		{"Cybersecurity", "cybersecurity", "#ef4444"},
		{"Tech News", "tech-news", "#ec4899"},
	}
	for _, c := range categories {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug, color) VALUES ($1, $2, $3)
		`, c.name, c.slug, c.color); err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
	}

	for _, tag := range []string{"go", "javascript", "react", "docker", "machine-learning"} {
		if _, err := db.Exec(`
			INSERT INTO tags (name, slug) VALUES ($1, $1)
		`, tag); err != nil {
			return fmt.Errorf("seed tag %s: %w", tag, err)
		}
	}

	posts := []struct {
		title, slug, excerpt, content string
		readTime                      int
	}{
		{
			title:    "Welcome to Inkwell",
			slug:     "welcome-to-inkwell",
			excerpt:  "A quick tour of the publishing workflow.",
			content:  "## Welcome\n\nDrafts move to pending review, and editors publish or reject them.",
			readTime: 1,
		},
		{
			title:    "Writing Your First Post",
			slug:     "writing-your-first-post",
			excerpt:  "Markdown in, moderated HTML out.",
			content:  "## Getting started\n\nWrite in Markdown. Submit when ready and an editor will take a look.",
			readTime: 1,
		},
	}
	for _, p := range posts {
		if _, err := db.Exec(`
			INSERT INTO posts (author_id, title, slug, excerpt, content, status, read_time, published_at)
			SELECT id, $1, $2, $3, $4, 'published', $5, NOW()
			FROM users WHERE username = 'jane'
		`, p.title, p.slug, p.excerpt, p.content, p.readTime); err != nil {
			return fmt.Errorf("seed post %s: %w", p.slug, err)
		}
	}

	slog.Info("database seeded with development data")
	return nil
}
