// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/handlers"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
	"inkwell/internal/workflow"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

// testDeps builds a router with nil-backed stores. Routes that hit the
// database are not exercised here; the tests below only walk routes that
// fail before any store call.
func testDeps(t *testing.T) Deps {
	t.Helper()

	cfg := &config.Config{UploadsDir: t.TempDir(), MaxUploadSize: 1 << 20}
	tokens := auth.NewTokens("test-secret", time.Hour)
	totp := auth.NewTOTPVerifier("InkwellTest")
	respCache := cache.NewResponseCache(nil, 0)
	mailer := mail.NewSender("", "", "", "", "")

	users := store.NewUserStore(nil)
	posts := store.NewPostStore(nil)
	tags := store.NewTagStore(nil)
	categories := store.NewCategoryStore(nil)
	comments := store.NewCommentStore(nil)
	social := store.NewSocialStore(nil)
	notify := store.NewNotificationStore(nil)
	statusLog := store.NewStatusLogStore(nil)
	media := store.NewMediaStore(nil)
	reports := store.NewReportStore(nil)
	newsletter := store.NewNewsletterStore(nil)
	activity := store.NewActivityStore(nil)
	stats := store.NewStatsStore(nil)

	manager := workflow.NewManager(posts, statusLog, notify)

	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	return Deps{
		Auth:          handlers.NewAuth(cfg, tokens, totp, users, mailer),
		Posts:         handlers.NewPosts(posts, tags, comments, social, statusLog, manager, respCache),
		Comments:      handlers.NewComments(comments, posts, notify),
		Users:         handlers.NewUsers(users, social, notify),
		Taxonomy:      handlers.NewTaxonomy(categories, tags),
		Bookmarks:     handlers.NewBookmarks(social, posts),
		Notifications: handlers.NewNotifications(notify),
		Media:         handlers.NewMedia(media, nil, cfg),
		Reports:       handlers.NewReports(reports),
		Newsletter:    handlers.NewNewsletter(newsletter, mailer),
		Admin:         handlers.NewAdmin(stats, users, posts, activity, notify, manager, respCache),
		Authn:         middleware.NewAuthenticator(tokens, users),
		Activity:      middleware.NewActivityRecorder(activity),
		AuthLimiter:   limiter,
		UploadsDir:    cfg.UploadsDir,
	}
}

func TestRouterHealth(t *testing.T) {
	r := New(testDeps(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /health: got %d, want 200", w.Code)
	}
}

func TestRouterAuthRequired(t *testing.T) {
	r := New(testDeps(t))

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/auth/me"},
		{"POST", "/api/posts"},
		{"GET", "/api/posts/mine"},
		{"GET", "/api/me/bookmarks"},
		{"GET", "/api/me/notifications"},
		{"POST", "/api/reports"},
		{"GET", "/api/admin/stats"},
		{"GET", "/api/admin/moderation"},
	}
	for _, tc := range protected {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: got %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	r := New(testDeps(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route: got %d, want 404", w.Code)
	}
}

func TestRouterSecureHeaders(t *testing.T) {
	r := New(testDeps(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q, want nosniff", got)
	}
}
