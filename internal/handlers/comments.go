package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Comments groups the comment handlers.
type Comments struct {
	comments *store.CommentStore
	posts    *store.PostStore
	notify   *store.NotificationStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, posts *store.PostStore, notify *store.NotificationStore) *Comments {
	return &Comments{comments: comments, posts: posts, notify: notify}
}

// ListByPost serves a post's approved comments.
func (h *Comments) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), postID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

type commentRequest struct {
	Content  string     `json:"content" validate:"required,max=5000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Create adds a comment on a published post and notifies the post
// author, unless they are commenting on their own post.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req commentRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
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

	if req.ParentID != nil {
		parent, err := h.comments.FindByID(r.Context(), *req.ParentID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if parent == nil || parent.PostID != post.ID {
			respondError(w, http.StatusBadRequest, "parent comment not found on this post")
			return
		}
	}

	comment, err := h.comments.Create(r.Context(), &models.Comment{
		PostID:   post.ID,
		UserID:   user.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if post.AuthorID != user.ID {
		link := "/post/" + post.Slug
		err := h.notify.Notify(r.Context(), &models.Notification{
			UserID:  &post.AuthorID,
			Type:    models.NotifyComment,
			Title:   "New Comment",
			Message: fmt.Sprintf("%s commented on %q.", user.DisplayName, post.Title),
			Link:    &link,
		})
		if err != nil {
			slog.Warn("comment notification failed", "post_id", post.ID, "error", err)
		}
	}

	respondJSON(w, http.StatusCreated, comment)
}

// Delete removes a comment. Comment author or moderator only.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	comment, err := h.comments.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "comment not found")
		return
	}
	if !user.Owns(comment.UserID) && !user.CanModerate() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.comments.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// SetApproved flips a comment's visibility. Moderator only; the route
// enforces the role.
func (h *Comments) SetApproved(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.comments.SetApproved(r.Context(), id, req.Approved); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "comment updated"})
}
