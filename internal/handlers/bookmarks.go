package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Bookmarks groups the saved-posts handlers.
type Bookmarks struct {
	social *store.SocialStore
	posts  *store.PostStore
}

// NewBookmarks creates a new Bookmarks handler group.
func NewBookmarks(social *store.SocialStore, posts *store.PostStore) *Bookmarks {
	return &Bookmarks{social: social, posts: posts}
}

// List serves the authenticated user's saved posts.
func (h *Bookmarks) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	saved, err := h.social.Bookmarks(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if saved == nil {
		saved = []models.PostSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"bookmarks": saved})
}

// Add saves a published post. Repeats are no-ops.
func (h *Bookmarks) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	post, err := h.posts.FindByID(r.Context(), postID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if post == nil || !post.IsPublished() {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	if err := h.social.Bookmark(r.Context(), user.ID, post.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"bookmarked": true})
}

// Remove drops a saved post.
func (h *Bookmarks) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.social.Unbookmark(r.Context(), user.ID, postID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"bookmarked": false})
}
