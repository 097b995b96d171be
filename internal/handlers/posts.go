// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
	"inkwell/internal/workflow"
)

// Posts groups the post listing, reading, and authoring handlers.
type Posts struct {
	posts     *store.PostStore
	tags      *store.TagStore
	comments  *store.CommentStore
	social    *store.SocialStore
	statusLog *store.StatusLogStore
	manager   *workflow.Manager
	cache     *cache.ResponseCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, tags *store.TagStore, comments *store.CommentStore,
	social *store.SocialStore, statusLog *store.StatusLogStore,
	manager *workflow.Manager, respCache *cache.ResponseCache) *Posts {
	return &Posts{
		posts: posts, tags: tags, comments: comments, social: social,
		statusLog: statusLog, manager: manager, cache: respCache,
	}
}

// List serves the public published-post listing with filters and
// pagination.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	q := r.URL.Query()

	opts := store.ListOptions{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Author:   q.Get("author"),
		Featured: q.Get("featured") == "true",
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     page,
		Limit:    limit,
	}

	posts, total, err := h.posts.List(r.Context(), opts)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if posts == nil {
		posts = []models.PostSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"meta":  pageMeta(page, limit, total),
	})
}

// Trending serves the most viewed posts of the last week, cached in
// Valkey to keep the aggregate query off the hot path.
func (h *Posts) Trending(w http.ResponseWriter, r *http.Request) {
	if body, ok := h.cache.Get(r.Context(), cache.TrendingKey()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	posts, err := h.posts.Trending(r.Context())
	if err != nil {
		slog.Error("trending posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if posts == nil {
		posts = []models.PostSummary{}
	}

	body, err := json.Marshal(map[string]any{"posts": posts})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.cache.Set(r.Context(), cache.TrendingKey(), body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Get serves one post by slug, falling back to id lookup for editor
// tooling. Published posts are public and count a view; drafts and
// other non-published statuses are visible only to the owner and
// moderators.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")
	post, err := h.posts.FindBySlug(r.Context(), ref)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if post == nil {
		if id, perr := uuid.Parse(ref); perr == nil {
			if post, err = h.posts.FindByID(r.Context(), id); err != nil {
				respondError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	user := middleware.UserFromCtx(r.Context())
	if !post.IsPublished() {
		if user == nil || (!user.Owns(post.AuthorID) && !user.CanModerate()) {
			respondError(w, http.StatusNotFound, "post not found")
			return
		}
	} else {
		if err := h.posts.IncrementViews(r.Context(), post.ID); err != nil {
			slog.Warn("view increment failed", "post_id", post.ID, "error", err)
		} else {
			post.Views++
		}
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("markdown render failed", "post_id", post.ID, "error", err)
		html = post.Content
	}

	categories, _ := h.posts.Categories(r.Context(), post.ID)
	postTags, _ := h.posts.Tags(r.Context(), post.ID)
	comments, _ := h.comments.ListByPost(r.Context(), post.ID)

	liked := false
	if user != nil {
		liked, _ = h.social.HasLiked(r.Context(), user.ID, post.ID)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"post":         post,
		"content_html": html,
		"categories":   categories,
		"tags":         postTags,
		"comments":     comments,
		"liked":        liked,
	})
}

type postRequest struct {
	Title          string      `json:"title" validate:"required,max=300"`
	Content        string      `json:"content" validate:"max=100000"`
	Excerpt        *string     `json:"excerpt"`
	FeaturedImage  *string     `json:"featured_image"`
	SEOTitle       *string     `json:"seo_title"`
	SEODescription *string     `json:"seo_description"`
	Status         string      `json:"status"`
	IsFeatured     bool        `json:"is_featured"`
	IsSponsored    bool        `json:"is_sponsored"`
	CategoryIDs    []uuid.UUID `json:"category_ids"`
	Tags           []string    `json:"tags" validate:"max=10,dive,max=50"`
}

// Create makes a new post for the authenticated user. Non-privileged
// roles asking for published land in pending.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req postRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.manager.Create(r.Context(), user, workflow.CreateInput{
		Title:          req.Title,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		FeaturedImage:  req.FeaturedImage,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		Status:         req.Status,
		IsFeatured:     req.IsFeatured,
		IsSponsored:    req.IsSponsored,
	})
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	h.linkTaxonomy(r.Context(), post.ID, req.CategoryIDs, req.Tags)
	if post.IsPublished() {
		h.cache.InvalidateAll(r.Context())
	}
	respondJSON(w, http.StatusCreated, post)
}

// Update edits a post. Owner or moderator only.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	post := h.loadPost(w, r)
	if post == nil {
		return
	}

	var req postRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := workflow.UpdateInput{
		Title:          &req.Title,
		Content:        &req.Content,
		Excerpt:        req.Excerpt,
		FeaturedImage:  req.FeaturedImage,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		IsFeatured:     &req.IsFeatured,
		IsSponsored:    &req.IsSponsored,
	}
	if req.Status != "" {
		in.Status = &req.Status
	}

	updated, err := h.manager.Update(r.Context(), user, post, in)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	h.linkTaxonomy(r.Context(), updated.ID, req.CategoryIDs, req.Tags)
	h.cache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a post. Owner or moderator only.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	post := h.loadPost(w, r)
	if post == nil {
		return
	}

	if err := h.manager.Delete(r.Context(), user, post); err != nil {
		respondWorkflowError(w, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// Submit moves the author's draft into the review queue.
func (h *Posts) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	post := h.loadPost(w, r)
	if post == nil {
		return
	}

	if err := h.manager.Submit(r.Context(), user, post); err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Mine lists the authenticated user's own posts across all statuses.
func (h *Posts) Mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	posts, err := h.posts.Mine(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Like toggles the user's like on a published post.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	post := h.loadPost(w, r)
	if post == nil {
		return
	}
	if !post.IsPublished() {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	liked, count, err := h.social.ToggleLike(r.Context(), user.ID, post.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"liked": liked, "likes": count})
}

// History returns the post's status transition trail. Owner or
// moderator only.
func (h *Posts) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	post := h.loadPost(w, r)
	if post == nil {
		return
	}
	if !user.Owns(post.AuthorID) && !user.CanModerate() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	entries, err := h.statusLog.ListByPost(r.Context(), post.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []models.PostStatusLog{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": entries})
}

// loadPost resolves the {id} URL parameter. Writes the error response
// and returns nil when the post cannot be served.
func (h *Posts) loadPost(w http.ResponseWriter, r *http.Request) *models.Post {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return nil
	}
	post, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return nil
	}
	return post
}

// linkTaxonomy replaces the post's category and tag links. Unknown tags
// are created on the fly from their names.
func (h *Posts) linkTaxonomy(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID, tagNames []string) {
	if categoryIDs != nil {
		if err := h.posts.SetCategories(ctx, postID, categoryIDs); err != nil {
			slog.Warn("set categories failed", "post_id", postID, "error", err)
		}
	}
	if tagNames == nil {
		return
	}

	var tagIDs []uuid.UUID
	for _, name := range tagNames {
		tagSlug := slug.Generate(name)
		if tagSlug == "" {
			continue
		}
		tag, err := h.tags.Ensure(ctx, name, tagSlug)
		if err != nil {
			slog.Warn("ensure tag failed", "tag", name, "error", err)
			continue
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	if err := h.posts.SetTags(ctx, postID, tagIDs); err != nil {
		slog.Warn("set tags failed", "post_id", postID, "error", err)
	}
}
