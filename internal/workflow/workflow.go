// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package workflow implements the post publication lifecycle: status
// transitions with role-based clamping, unique slug assignment, read-time
// computation, and the audit-log and notification side effects of
// moderation decisions.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

var (
	// ErrForbidden means the actor lacks the role or ownership required.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition means the requested status change is not legal
	// from the post's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrTitleRequired means the post title is missing or blank.
	ErrTitleRequired = errors.New("title is required")
)

// PostStore is the subset of post persistence the manager needs.
type PostStore interface {
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatusLogger appends rows to the append-only status audit trail.
type StatusLogger interface {
	Append(ctx context.Context, entry *models.PostStatusLog) error
}

// Notifier records notification events for users.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

// Manager drives the draft → pending → published/rejected lifecycle.
// Audit-log and notification writes are best-effort: their failure is
// logged and never surfaced to the caller.
type Manager struct {
	posts  PostStore
	log    StatusLogger
	notify Notifier
}

// NewManager wires the lifecycle manager to its stores.
func NewManager(posts PostStore, log StatusLogger, notify Notifier) *Manager {
	return &Manager{posts: posts, log: log, notify: notify}
}

// CreateInput carries the author-supplied fields for a new post.
type CreateInput struct {
	Title          string
	Content        string
	Excerpt        *string
	FeaturedImage  *string
	SEOTitle       *string
	SEODescription *string
	Status         string
	IsFeatured     bool
	IsSponsored    bool
}

// UpdateInput carries partial updates; nil fields are left unchanged.
type UpdateInput struct {
	Title          *string
	Content        *string
	Excerpt        *string
	FeaturedImage  *string
	SEOTitle       *string
	SEODescription *string
	Status         *string
	IsFeatured     *bool
	IsSponsored    *bool
}

// Create validates input, clamps the requested status for non-privileged
// authors, assigns a unique slug, computes the read time, and persists
// the post. published_at is stamped only when the stored status is
// published.
func (m *Manager) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	status := clampStatus(actor.Role, models.PostStatus(in.Status))

	uniqueSlug, err := m.uniqueSlug(ctx, in.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:       actor.ID,
		Title:          in.Title,
		Slug:           uniqueSlug,
		Content:        in.Content,
		Excerpt:        in.Excerpt,
		FeaturedImage:  in.FeaturedImage,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		Status:         status,
		ReadTime:       ReadTime(in.Content),
		IsFeatured:     in.IsFeatured,
		IsSponsored:    in.IsSponsored,
	}
	if status == models.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	return m.posts.Create(ctx, post)
}

// Update applies a partial edit. Only the owning author or a moderator
// may mutate; the publish-downgrade clamp applies to the actor; a title
// change regenerates the slug; moving back to draft or pending clears
// the rejection note; published_at is stamped only on the first
// transition into published.
func (m *Manager) Update(ctx context.Context, actor *models.User, post *models.Post, in UpdateInput) (*models.Post, error) {
	if !actor.Owns(post.AuthorID) && !actor.CanModerate() {
		return nil, ErrForbidden
	}

	if in.Title != nil && *in.Title != post.Title {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrTitleRequired
		}
		newSlug, err := m.uniqueSlug(ctx, *in.Title, post.ID)
		if err != nil {
			return nil, err
		}
		post.Title = *in.Title
		post.Slug = newSlug
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = in.Excerpt
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = in.FeaturedImage
	}
	if in.SEOTitle != nil {
		post.SEOTitle = in.SEOTitle
	}
	if in.SEODescription != nil {
		post.SEODescription = in.SEODescription
	}
	if in.IsFeatured != nil {
		post.IsFeatured = *in.IsFeatured
	}
	if in.IsSponsored != nil {
		post.IsSponsored = *in.IsSponsored
	}

	if in.Status != nil {
		requested := models.PostStatus(*in.Status)
		if !requested.Valid() {
			return nil, ErrInvalidTransition
		}
		newStatus := clampStatus(actor.Role, requested)
		if newStatus == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.Status = newStatus
	}

	// Moving back into the authoring states discards any reviewer note,
	// so a resubmission starts clean.
	if post.Status == models.PostStatusDraft || post.Status == models.PostStatusPending {
		post.RejectionNote = nil
	}

	post.ReadTime = ReadTime(post.Content)

	if err := m.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Submit moves a draft into the review queue. Only the owning author may
// submit, and only from draft.
func (m *Manager) Submit(ctx context.Context, actor *models.User, post *models.Post) error {
	if !actor.Owns(post.AuthorID) {
		return ErrForbidden
	}
	if post.Status != models.PostStatusDraft {
		return fmt.Errorf("%w: only drafts can be submitted", ErrInvalidTransition)
	}

	post.Status = models.PostStatusPending
	post.RejectionNote = nil
	return m.posts.Update(ctx, post)
}

// Approve publishes a post under review. Editor/admin only. Stamps
// published_at on first publication, clears the rejection note, appends
// one audit row, and notifies the author.
func (m *Manager) Approve(ctx context.Context, actor *models.User, post *models.Post) error {
	if !actor.CanModerate() {
		return ErrForbidden
	}

	oldStatus := post.Status
	post.Status = models.PostStatusPublished
	post.RejectionNote = nil
	if post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := m.posts.Update(ctx, post); err != nil {
		return err
	}

	m.appendLog(ctx, post.ID, actor.ID, oldStatus, models.PostStatusPublished, nil)
	link := "/post/" + post.Slug
	m.send(ctx, &models.Notification{
		UserID:  &post.AuthorID,
		Type:    models.NotifyPostApproved,
		Title:   "Post Approved!",
		Message: fmt.Sprintf("Your post %q has been approved and published.", post.Title),
		Link:    &link,
	})
	return nil
}

// Reject declines a post under review with an optional note. Editor/admin
// only. published_at is left untouched.
func (m *Manager) Reject(ctx context.Context, actor *models.User, post *models.Post, note string) error {
	if !actor.CanModerate() {
		return ErrForbidden
	}

	oldStatus := post.Status
	post.Status = models.PostStatusRejected
	post.RejectionNote = &note

	if err := m.posts.Update(ctx, post); err != nil {
		return err
	}

	m.appendLog(ctx, post.ID, actor.ID, oldStatus, models.PostStatusRejected, &note)
	link := "/dashboard/posts"
	m.send(ctx, &models.Notification{
		UserID:  &post.AuthorID,
		Type:    models.NotifyPostRejected,
		Title:   "Post Rejected",
		Message: strings.TrimSpace(fmt.Sprintf("Your post %q was rejected. %s", post.Title, note)),
		Link:    &link,
	})
	return nil
}

// Delete hard-deletes a post. Owner or editor/admin. Join-table rows are
// removed by foreign-key cascade so no orphans remain.
func (m *Manager) Delete(ctx context.Context, actor *models.User, post *models.Post) error {
	if !actor.Owns(post.AuthorID) && !actor.CanModerate() {
		return ErrForbidden
	}
	return m.posts.Delete(ctx, post.ID)
}

// clampStatus applies the publish-downgrade policy: a non-editor/admin
// requesting published lands in pending instead. Anything outside the
// authoring statuses collapses to draft.
func clampStatus(role models.Role, requested models.PostStatus) models.PostStatus {
	if requested == models.PostStatusPublished {
		if role.Privileged() {
			return models.PostStatusPublished
		}
		return models.PostStatusPending
	}
	if requested == models.PostStatusPending {
		return models.PostStatusPending
	}
	return models.PostStatusDraft
}

// uniqueSlug derives a slug from the title and probes linearly
// (base, base-1, base-2, ...) until an unused value is found.
// excludeID skips the post's own row when updating.
func (m *Manager) uniqueSlug(ctx context.Context, title string, excludeID uuid.UUID) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := m.posts.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (m *Manager) appendLog(ctx context.Context, postID, actorID uuid.UUID, oldStatus, newStatus models.PostStatus, note *string) {
	err := m.log.Append(ctx, &models.PostStatusLog{
		PostID:    postID,
		ChangedBy: actorID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Note:      note,
	})
	if err != nil {
		slog.Error("status log append failed", "post_id", postID, "error", err)
	}
}

func (m *Manager) send(ctx context.Context, n *models.Notification) {
	if err := m.notify.Notify(ctx, n); err != nil {
		slog.Error("notification write failed", "type", n.Type, "error", err)
	}
}

// markupTags matches HTML tags for read-time word counting.
var markupTags = regexp.MustCompile(`<[^>]*>`)

// ReadTime estimates reading minutes from the content's word count at
// 200 words per minute, with a minimum of one minute. Markup is stripped
// before counting.
func ReadTime(content string) int {
	text := markupTags.ReplaceAllString(content, " ")
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
