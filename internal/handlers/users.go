// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Users groups the public profile and social-graph handlers.
type Users struct {
	users  *store.UserStore
	social *store.SocialStore
	notify *store.NotificationStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, social *store.SocialStore, notify *store.NotificationStore) *Users {
	return &Users{users: users, social: social, notify: notify}
}

// Profile serves a user's public profile with aggregate counts. The
// path accepts a username or a user id; the is_following flag is
// attached for authenticated viewers.
func (h *Users) Profile(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "username")
	if id, err := uuid.Parse(ref); err == nil {
		user, err := h.users.FindByID(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		ref = user.Username
	}

	profile, err := h.users.Profile(r.Context(), ref)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	following := false
	if viewer := middleware.UserFromCtx(r.Context()); viewer != nil {
		following, _ = h.social.IsFollowing(r.Context(), viewer.ID, profile.ID)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"profile":      profile,
		"is_following": following,
	})
}

// Follow creates a follow edge and notifies the target on the first
// follow. Self-follows are rejected.
func (h *Users) Follow(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	target, err := h.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if target == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if target.ID == user.ID {
		respondError(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}

	created, err := h.social.Follow(r.Context(), user.ID, target.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if created {
		link := "/user/" + user.Username
		err := h.notify.Notify(r.Context(), &models.Notification{
			UserID:  &target.ID,
			Type:    models.NotifyFollow,
			Title:   "New Follower",
			Message: fmt.Sprintf("%s started following you.", user.DisplayName),
			Link:    &link,
		})
		if err != nil {
			slog.Warn("follow notification failed", "target_id", target.ID, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]bool{"following": true})
}

// Unfollow removes the follow edge.
func (h *Users) Unfollow(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	target, err := h.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if target == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.social.Unfollow(r.Context(), user.ID, target.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"following": false})
}

// Followers lists the users following the named account.
func (h *Users) Followers(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.social.Followers, "followers")
}

// Following lists the users the named account follows.
func (h *Users) Following(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.social.Following, "following")
}

func (h *Users) listEdge(w http.ResponseWriter, r *http.Request,
	list func(context.Context, uuid.UUID) ([]models.Profile, error), key string) {
	target, err := h.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if target == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	profiles, err := list(r.Context(), target.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	respondJSON(w, http.StatusOK, map[string]any{key: profiles})
}

type updateProfileRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	Avatar      *string `json:"avatar" validate:"omitempty,max=500"`
	Website     *string `json:"website" validate:"omitempty,url,max=200"`
	Twitter     *string `json:"twitter" validate:"omitempty,max=50"`
	Github      *string `json:"github" validate:"omitempty,max=50"`
}

// UpdateProfile edits the authenticated user's public fields.
func (h *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user.DisplayName = req.DisplayName
	user.Bio = req.Bio
	user.Avatar = req.Avatar
	user.Website = req.Website
	user.Twitter = req.Twitter
	user.Github = req.Github

	if err := h.users.UpdateProfile(r.Context(), user); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangePassword rotates the authenticated user's password after
// confirming the current one.
func (h *Users) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.users.CheckPassword(user, req.CurrentPassword) {
		respondError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	if err := h.users.SetPassword(r.Context(), user.ID, req.NewPassword); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
