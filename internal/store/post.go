// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

const postColumns = `id, author_id, title, slug, content, excerpt, featured_image,
	seo_title, seo_description, status, rejection_note, read_time, views,
	is_featured, is_sponsored, published_at, created_at, updated_at`

// summarySelect joins author identity and engagement counts onto the
// listing projection.
const summarySelect = `
	SELECT p.id, p.title, p.slug, p.excerpt, p.featured_image,
	       p.views, p.read_time, p.is_featured, p.is_sponsored, p.published_at,
	       u.id, u.username, u.display_name, u.avatar,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.FeaturedImage, &p.SEOTitle, &p.SEODescription, &p.Status,
		&p.RejectionNote, &p.ReadTime, &p.Views, &p.IsFeatured, &p.IsSponsored,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanSummary(row interface{ Scan(...any) error }) (models.PostSummary, error) {
	var s models.PostSummary
	err := row.Scan(
		&s.ID, &s.Title, &s.Slug, &s.Excerpt, &s.FeaturedImage,
		&s.Views, &s.ReadTime, &s.IsFeatured, &s.IsSponsored, &s.PublishedAt,
		&s.AuthorID, &s.AuthorUsername, &s.AuthorName, &s.AuthorAvatar,
		&s.CommentCount, &s.LikeCount,
	)
	return s, err
}

// SlugExists reports whether any post other than excludeID already uses
// the slug. Pass uuid.Nil to check against all posts.
func (s *PostStore) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with generated fields filled in.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	created, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, title, slug, content, excerpt, featured_image,
		                   seo_title, seo_description, status, read_time,
		                   is_featured, is_sponsored, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+postColumns,
		p.AuthorID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage,
		p.SEOTitle, p.SEODescription, p.Status, p.ReadTime,
		p.IsFeatured, p.IsSponsored, p.PublishedAt))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update persists all mutable fields of the post.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			featured_image = $5, seo_title = $6, seo_description = $7,
			status = $8, rejection_note = $9, read_time = $10,
			is_featured = $11, is_sponsored = $12, published_at = $13,
			updated_at = NOW()
		WHERE id = $14
	`, p.Title, p.Slug, p.Content, p.Excerpt,
		p.FeaturedImage, p.SEOTitle, p.SEODescription,
		p.Status, p.RejectionNote, p.ReadTime,
		p.IsFeatured, p.IsSponsored, p.PublishedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post. Join-table rows cascade.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by UUID regardless of status. Returns nil if
// not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of status. Visibility of
// non-published posts is the caller's decision.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// IncrementViews bumps the view counter in a single statement, so
// concurrent reads never lose increments.
func (s *PostStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// ListOptions filters the public published-post listing. Zero values
// leave the corresponding filter off.
type ListOptions struct {
	Category string // category slug
	Tag      string // tag slug
	Author   string // author username
	Featured bool
	Search   string // case-insensitive match over title and excerpt
	Sort     string // "trending" for views desc, "oldest" for ascending, else newest first
	Page     int
	Limit    int
}

// List returns a page of published posts matching the options, along
// with the total match count. All filters compose via parameterized SQL.
func (s *PostStore) List(ctx context.Context, opts ListOptions) ([]models.PostSummary, int, error) {
	where := []string{`p.status = 'published'`}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.Category != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM post_categories pc
			JOIN categories cat ON cat.id = pc.category_id
			WHERE pc.post_id = p.id AND cat.slug = `+arg(opts.Category)+`)`)
	}
	if opts.Tag != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = `+arg(opts.Tag)+`)`)
	}
	if opts.Author != "" {
		where = append(where, `u.username = `+arg(opts.Author))
	}
	if opts.Featured {
		where = append(where, `p.is_featured = TRUE`)
	}
	if opts.Search != "" {
		ph := arg("%" + opts.Search + "%")
		where = append(where, `(p.title ILIKE `+ph+` OR p.excerpt ILIKE `+ph+`)`)
	}

	cond := strings.Join(where, " AND ")

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p JOIN users u ON u.id = p.author_id WHERE `+cond,
		args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	order := `p.published_at DESC NULLS LAST`
	switch opts.Sort {
	case "trending", "popular":
		order = `p.views DESC, p.published_at DESC NULLS LAST`
	case "oldest":
		order = `p.published_at ASC NULLS LAST`
	}

	query := summarySelect + ` WHERE ` + cond +
		` ORDER BY ` + order +
		` LIMIT ` + arg(opts.Limit) + ` OFFSET ` + arg((opts.Page-1)*opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.PostSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post summary: %w", err)
		}
		posts = append(posts, sum)
	}
	return posts, total, rows.Err()
}

// Trending returns the five most viewed posts published in the last
// seven days.
func (s *PostStore) Trending(ctx context.Context) ([]models.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, summarySelect+`
		WHERE p.status = 'published' AND p.published_at > NOW() - INTERVAL '7 days'
		ORDER BY p.views DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("trending posts: %w", err)
	}
	defer rows.Close()

	var posts []models.PostSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post summary: %w", err)
		}
		posts = append(posts, sum)
	}
	return posts, rows.Err()
}

// Mine returns all of the author's own posts regardless of status,
// newest first.
func (s *PostStore) Mine(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE author_id = $1 ORDER BY created_at DESC`,
		authorID)
	if err != nil {
		return nil, fmt.Errorf("list own posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Moderation returns a page of posts for the review queue. An empty
// status lists every status; otherwise the filter is bound as a query
// parameter, never interpolated.
func (s *PostStore) Moderation(ctx context.Context, status models.PostStatus, page, limit int) ([]models.Post, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = `WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count moderation queue: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT `+postColumns+` FROM posts %s
		 ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list moderation queue: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// SetCategories replaces the post's category links.
func (s *PostStore) SetCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set categories: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, id := range categoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, id); err != nil {
			return fmt.Errorf("link category: %w", err)
		}
	}
	return tx.Commit()
}

// SetTags replaces the post's tag links, creating unknown tags by slug.
func (s *PostStore) SetTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set tags: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, id := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, id); err != nil {
			return fmt.Errorf("link tag: %w", err)
		}
	}
	return tx.Commit()
}

// Categories returns the categories linked to a post.
func (s *PostStore) Categories(ctx context.Context, postID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("post categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Tags returns the tags linked to a post.
func (s *PostStore) Tags(ctx context.Context, postID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("post tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
