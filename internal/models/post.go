// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the moderation state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPending   PostStatus = "pending"
	PostStatusPublished PostStatus = "published"
	PostStatusRejected  PostStatus = "rejected"
)

// Valid reports whether s is one of the four known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPending, PostStatusPublished, PostStatusRejected:
		return true
	}
	return false
}

// Post represents an article moving through the moderation workflow.
type Post struct {
	ID             uuid.UUID  `json:"id"`
	AuthorID       uuid.UUID  `json:"author_id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	FeaturedImage  *string    `json:"featured_image,omitempty"`
	SEOTitle       *string    `json:"seo_title,omitempty"`
	SEODescription *string    `json:"seo_description,omitempty"`
	Status         PostStatus `json:"status"`
	RejectionNote  *string    `json:"rejection_note,omitempty"`
	ReadTime       int        `json:"read_time"`
	Views          int        `json:"views"`
	IsFeatured     bool       `json:"is_featured"`
	IsSponsored    bool       `json:"is_sponsored"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostSummary is the listing projection of a post: author identity and
// engagement counts attached, body omitted.
type PostSummary struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	FeaturedImage  *string    `json:"featured_image,omitempty"`
	Views          int        `json:"views"`
	ReadTime       int        `json:"read_time"`
	IsFeatured     bool       `json:"is_featured"`
	IsSponsored    bool       `json:"is_sponsored"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	AuthorID       uuid.UUID  `json:"author_id"`
	AuthorUsername string     `json:"author_username"`
	AuthorName     string     `json:"author_name"`
	AuthorAvatar   *string    `json:"author_avatar,omitempty"`
	CommentCount   int        `json:"comment_count"`
	LikeCount      int        `json:"like_count"`
}

// PostStatusLog is one row of the append-only audit trail recording a
// status transition. Rows are never mutated or deleted.
type PostStatusLog struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	ChangedBy uuid.UUID  `json:"changed_by"`
	OldStatus PostStatus `json:"old_status"`
	NewStatus PostStatus `json:"new_status"`
	Note      *string    `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
