// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Routes are organized into public, authenticated, and
// role-gated groups.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// Deps bundles the handler groups and middleware the router wires up.
type Deps struct {
	Auth          *handlers.Auth
	Posts         *handlers.Posts
	Comments      *handlers.Comments
	Users         *handlers.Users
	Taxonomy      *handlers.Taxonomy
	Bookmarks     *handlers.Bookmarks
	Notifications *handlers.Notifications
	Media         *handlers.Media
	Reports       *handlers.Reports
	Newsletter    *handlers.Newsletter
	Admin         *handlers.Admin

	Authn       *middleware.Authenticator
	Activity    *middleware.ActivityRecorder
	AuthLimiter *middleware.RateLimiter

	UploadsDir string
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(d.Authn.LoadUser)
	r.Use(d.Activity.Record)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Uploaded media served from local disk.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(d.UploadsDir))))

	r.Route("/api", func(r chi.Router) {
		// Auth — registration and login are rate limited per IP.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(d.AuthLimiter.Middleware)
				r.Post("/register", d.Auth.Register)
				r.Post("/login", d.Auth.Login)
			})
			r.Get("/verify-email", d.Auth.VerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", d.Auth.Me)
				r.Post("/2fa/setup", d.Auth.TwoFASetup)
				r.Post("/2fa/enable", d.Auth.TwoFAEnable)
				r.Post("/2fa/disable", d.Auth.TwoFADisable)
			})
		})

		// Posts — public reads, authenticated authoring.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/trending", d.Posts.Trending)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Posts.Create)
				r.Get("/mine", d.Posts.Mine)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Posts.Get)
				r.Get("/comments", d.Comments.ListByPost)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireUser)
					r.Put("/", d.Posts.Update)
					r.Delete("/", d.Posts.Delete)
					r.Post("/submit", d.Posts.Submit)
					r.Post("/like", d.Posts.Like)
					r.Get("/history", d.Posts.History)
					r.Post("/comments", d.Comments.Create)
					r.Post("/bookmark", d.Bookmarks.Add)
					r.Delete("/bookmark", d.Bookmarks.Remove)
				})
			})
		})

		// Comments — deletion and moderation by direct id.
		r.Route("/comments/{commentID}", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Delete("/", d.Comments.Delete)
			r.With(middleware.RequireRole(models.RoleEditor)).
				Put("/approve", d.Comments.SetApproved)
		})

		// Public profiles and the social graph.
		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", d.Users.Profile)
			r.Get("/followers", d.Users.Followers)
			r.Get("/following", d.Users.Following)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/follow", d.Users.Follow)
				r.Delete("/follow", d.Users.Unfollow)
			})
		})

		// The authenticated user's own surface.
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Put("/profile", d.Users.UpdateProfile)
			r.Put("/password", d.Users.ChangePassword)
			r.Get("/bookmarks", d.Bookmarks.List)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", d.Notifications.List)
				r.Get("/unread", d.Notifications.UnreadCount)
				r.Put("/read-all", d.Notifications.MarkAllRead)
				r.Put("/{id}/read", d.Notifications.MarkRead)
				r.Delete("/{id}", d.Notifications.Delete)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", d.Media.ListMine)
				r.Post("/", d.Media.Upload)
				r.Delete("/{id}", d.Media.Delete)
			})
		})

		// Taxonomy — public reads; mutations live on the admin surface.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Taxonomy.ListCategories)
			r.Get("/{slug}", d.Taxonomy.GetCategory)
		})
		r.Get("/tags", d.Taxonomy.ListTags)

		// Reports — any authenticated user may file one.
		r.With(middleware.RequireUser).Post("/reports", d.Reports.Create)

		// Newsletter — public by design, no account needed.
		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", d.Newsletter.Subscribe)
			r.Post("/unsubscribe", d.Newsletter.Unsubscribe)
		})

		// Admin surface. Moderation is open to editors; user management,
		// logs, and announcements require the admin role.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleEditor))
				r.Get("/moderation", d.Admin.Moderation)
				r.Post("/posts/{id}/approve", d.Admin.Approve)
				r.Post("/posts/{id}/reject", d.Admin.Reject)
				r.Get("/reports", d.Reports.List)
				r.Put("/reports/{id}", d.Reports.SetStatus)
				r.Post("/categories", d.Taxonomy.CreateCategory)
				r.Put("/categories/{id}", d.Taxonomy.UpdateCategory)
				r.Post("/tags", d.Taxonomy.CreateTag)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/stats", d.Admin.Stats)
				r.Get("/users", d.Admin.ListUsers)
				r.Put("/users/{id}/role", d.Admin.SetRole)
				r.Put("/users/{id}/suspend", d.Admin.SetSuspended)
				r.Delete("/users/{id}", d.Admin.DeleteUser)
				r.Delete("/categories/{id}", d.Taxonomy.DeleteCategory)
				r.Delete("/tags/{id}", d.Taxonomy.DeleteTag)
				r.Get("/activity", d.Admin.ActivityLogs)
				r.Post("/broadcast", d.Admin.Broadcast)
				r.Get("/newsletter", d.Newsletter.ListSubscribers)
				r.Post("/newsletter/issue", d.Newsletter.SendIssue)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
