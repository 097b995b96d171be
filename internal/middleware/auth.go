// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the authenticated user.
	UserKey contextKey = "user"
)

// Authenticator resolves bearer tokens into users. It loads the user row
// on every request so role changes and suspensions apply immediately,
// not at next token refresh.
type Authenticator struct {
	tokens *auth.Tokens
	users  *store.UserStore
}

// NewAuthenticator creates the token-resolving middleware provider.
func NewAuthenticator(tokens *auth.Tokens, users *store.UserStore) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// LoadUser parses the Authorization header and stores the user in the
// request context. This middleware does NOT enforce authentication; it
// just loads the identity if a valid token is present. Suspended
// accounts are rejected outright.
func (a *Authenticator) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		userID, _, err := a.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			// Invalid token: treat as unauthenticated.
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}
		if user.IsSuspended {
			http.Error(w, `{"error":"account suspended"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser returns 401 for unauthenticated requests.
// Must be applied after LoadUser in the middleware chain.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns 403 unless the authenticated user carries at least
// the given role. Must be applied after RequireUser.
func RequireRole(min models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil || !user.Role.AtLeast(min) {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil for anonymous requests.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}
