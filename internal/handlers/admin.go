// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/workflow"
)

// Admin groups the dashboard, user administration, moderation queue,
// and activity-log handlers. The router gates the moderation routes to
// editors and the rest to admins.
type Admin struct {
	stats    *store.StatsStore
	users    *store.UserStore
	posts    *store.PostStore
	activity *store.ActivityStore
	notify   *store.NotificationStore
	manager  *workflow.Manager
	cache    *cache.ResponseCache
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(stats *store.StatsStore, users *store.UserStore, posts *store.PostStore,
	activity *store.ActivityStore, notify *store.NotificationStore,
	manager *workflow.Manager, respCache *cache.ResponseCache) *Admin {
	return &Admin{
		stats:    stats,
		users:    users,
		posts:    posts,
		activity: activity,
		notify:   notify,
		manager:  manager,
		cache:    respCache,
	}
}

// Stats serves the dashboard snapshot.
func (h *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.stats.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// ListUsers serves a paginated user listing with optional ?search= over
// username, email, and display name.
func (h *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	users, total, err := h.users.List(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"meta":  pageMeta(page, limit, total),
	})
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetRole changes a user's role. Admins cannot demote themselves, which
// guards against locking the last admin out.
func (h *Admin) SetRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == actor.ID {
		respondError(w, http.StatusBadRequest, "cannot change your own role")
		return
	}

	var req setRoleRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := h.users.SetRole(r.Context(), id, role); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// SetSuspended suspends or reinstates an account. Suspended users are
// rejected at the authentication layer on their next request.
func (h *Admin) SetSuspended(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == actor.ID {
		respondError(w, http.StatusBadRequest, "cannot suspend yourself")
		return
	}

	var req struct {
		Suspended bool `json:"suspended"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.SetSuspended(r.Context(), id, req.Suspended); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"suspended": req.Suspended})
}

// DeleteUser removes an account. Posts, comments, and social edges go
// with it through the schema's cascades.
func (h *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == actor.ID {
		respondError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// Moderation serves the review queue, optionally filtered by ?status=.
func (h *Admin) Moderation(w http.ResponseWriter, r *http.Request) {
	status := models.PostStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	page, limit := pagination(r)
	posts, total, err := h.posts.Moderation(r.Context(), status, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"meta":  pageMeta(page, limit, total),
	})
}

// Approve publishes a pending post.
func (h *Admin) Approve(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	post, ok := h.loadModerated(w, r)
	if !ok {
		return
	}

	if err := h.manager.Approve(r.Context(), actor, post); err != nil {
		respondWorkflowError(w, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, post)
}

type rejectRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

// Reject sends a pending post back to its author with a note.
func (h *Admin) Reject(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	post, ok := h.loadModerated(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.manager.Reject(r.Context(), actor, post, req.Note); err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *Admin) loadModerated(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return nil, false
	}
	post, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	return post, true
}

// ActivityLogs serves the paginated audit trail.
func (h *Admin) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	logs, total, err := h.activity.List(r.Context(), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"logs": logs,
		"meta": pageMeta(page, limit, total),
	})
}

type broadcastRequest struct {
	Title   string  `json:"title" validate:"required,min=1,max=200"`
	Message string  `json:"message" validate:"required,min=1,max=2000"`
	Link    *string `json:"link" validate:"omitempty,max=500"`
}

// Broadcast publishes an announcement visible to every user's inbox.
func (h *Admin) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.notify.Broadcast(r.Context(), req.Title, req.Message, req.Link); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "announcement sent"})
}
