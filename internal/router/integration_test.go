// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// End-to-end test driving the full API through the router against a
// real PostgreSQL instance. Skipped when the database is unreachable.
package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pressly/goose/v3"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/workflow"
)

func integrationDSN() string {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return "postgres://" + get("POSTGRES_USER", "inkwell") + ":" + get("POSTGRES_PASSWORD", "changeme") +
		"@" + get("POSTGRES_HOST", "localhost") + ":" + get("POSTGRES_PORT", "5432") +
		"/" + get("POSTGRES_DB", "inkwell") + "?sslmode=disable"
}

// integrationServer wires real stores over a live database into the
// full router. Skips the test when PostgreSQL is unavailable.
func integrationServer(t *testing.T) (chi.Router, *sql.DB) {
	t.Helper()

	db, err := database.Connect(integrationDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		UploadsDir:    t.TempDir(),
		MaxUploadSize: 1 << 20,
		ClientURL:     "http://localhost:5173",
	}
	tokens := auth.NewTokens("integration-secret", time.Hour)
	totp := auth.NewTOTPVerifier("InkwellTest")
	respCache := cache.NewResponseCache(nil, 0)
	mailer := mail.NewSender("", "", "", "", "")

	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	tags := store.NewTagStore(db)
	categories := store.NewCategoryStore(db)
	comments := store.NewCommentStore(db)
	social := store.NewSocialStore(db)
	notify := store.NewNotificationStore(db)
	statusLog := store.NewStatusLogStore(db)

	manager := workflow.NewManager(posts, statusLog, notify)

	limiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	return New(Deps{
		Auth:          handlers.NewAuth(cfg, tokens, totp, users, mailer),
		Posts:         handlers.NewPosts(posts, tags, comments, social, statusLog, manager, respCache),
		Comments:      handlers.NewComments(comments, posts, notify),
		Users:         handlers.NewUsers(users, social, notify),
		Taxonomy:      handlers.NewTaxonomy(categories, tags),
		Bookmarks:     handlers.NewBookmarks(social, posts),
		Notifications: handlers.NewNotifications(notify),
		Media:         handlers.NewMedia(store.NewMediaStore(db), nil, cfg),
		Reports:       handlers.NewReports(store.NewReportStore(db)),
		Newsletter:    handlers.NewNewsletter(store.NewNewsletterStore(db), mailer),
		Admin: handlers.NewAdmin(store.NewStatsStore(db), users, posts,
			store.NewActivityStore(db), notify, manager, respCache),
		Authn:       middleware.NewAuthenticator(tokens, users),
		Activity:    middleware.NewActivityRecorder(store.NewActivityStore(db)),
		AuthLimiter: limiter,
		UploadsDir:  cfg.UploadsDir,
	}), db
}

// call issues a JSON request against the router and decodes the response.
func call(t *testing.T, r chi.Router, method, path, token, body string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func registerUser(t *testing.T, r chi.Router, db *sql.DB, name string) (token, id string) {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	body := `{"username":"` + name + `","email":"` + name + `@example.com",` +
		`"password":"password123","display_name":"` + name + `"}`
	if code := call(t, r, "POST", "/api/auth/register", "", body, &resp); code != http.StatusCreated {
		t.Fatalf("register %s: got status %d", name, code)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", resp.User.ID) })
	return resp.Token, resp.User.ID
}

func TestPublishFlowEndToEnd(t *testing.T) {
	r, db := integrationServer(t)

	suffix := time.Now().Format("150405")
	authorToken, _ := registerUser(t, r, db, "author"+suffix)
	editorToken, editorID := registerUser(t, r, db, "editor"+suffix)

	// Registration always grants author; promote the reviewer directly.
	if _, err := db.Exec(`UPDATE users SET role = 'editor' WHERE id = $1`, editorID); err != nil {
		t.Fatalf("promote editor: %v", err)
	}

	// An author asking for published lands in pending review.
	var created struct {
		ID     string            `json:"id"`
		Slug   string            `json:"slug"`
		Status models.PostStatus `json:"status"`
	}
	code := call(t, r, "POST", "/api/posts", authorToken,
		`{"title":"Release Notes `+suffix+`","content":"Plenty of words here.","status":"published"}`, &created)
	if code != http.StatusCreated {
		t.Fatalf("create post: got status %d", code)
	}
	if created.Status != models.PostStatusPending {
		t.Fatalf("created status: got %q, want pending", created.Status)
	}

	// The author cannot approve their own post.
	if code := call(t, r, "POST", "/api/admin/posts/"+created.ID+"/approve", authorToken, "", nil); code != http.StatusForbidden {
		t.Errorf("author approve: got status %d, want 403", code)
	}

	// The editor can.
	var approved struct {
		Status      models.PostStatus `json:"status"`
		PublishedAt *time.Time        `json:"published_at"`
	}
	if code := call(t, r, "POST", "/api/admin/posts/"+created.ID+"/approve", editorToken, "", &approved); code != http.StatusOK {
		t.Fatalf("editor approve: got status %d", code)
	}
	if approved.Status != models.PostStatusPublished {
		t.Errorf("approved status: got %q, want published", approved.Status)
	}
	if approved.PublishedAt == nil {
		t.Error("published_at not stamped on approval")
	}

	// An anonymous read serves the post and counts the view.
	var read struct {
		Post struct {
			Views int `json:"views"`
		} `json:"post"`
		ContentHTML string `json:"content_html"`
	}
	if code := call(t, r, "GET", "/api/posts/"+created.Slug, "", "", &read); code != http.StatusOK {
		t.Fatalf("read post: got status %d", code)
	}
	if read.Post.Views != 1 {
		t.Errorf("views after first read: got %d, want 1", read.Post.Views)
	}
	if !strings.Contains(read.ContentHTML, "<p>") {
		t.Errorf("content_html not rendered: %q", read.ContentHTML)
	}

	// The approval left a notification in the author's inbox.
	var inbox struct {
		Notifications []models.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}
	if code := call(t, r, "GET", "/api/me/notifications", authorToken, "", &inbox); code != http.StatusOK {
		t.Fatalf("list notifications: got status %d", code)
	}
	found := false
	for _, n := range inbox.Notifications {
		if n.Type == models.NotifyPostApproved {
			found = true
		}
	}
	if !found {
		t.Error("no post_approved notification delivered to the author")
	}
}
