package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/store"
)

// ActivityRecorder writes an audit row for every state-changing request.
// Writes are best-effort: a failed insert never fails the request.
type ActivityRecorder struct {
	activity *store.ActivityStore
}

// NewActivityRecorder creates the activity-trail middleware provider.
func NewActivityRecorder(activity *store.ActivityStore) *ActivityRecorder {
	return &ActivityRecorder{activity: activity}
}

// Record logs POST, PUT, PATCH, and DELETE requests to the activity
// trail with the acting user (when authenticated), client IP, and agent.
// Must be applied after LoadUser so the identity is available.
func (a *ActivityRecorder) Record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}

		var userID *uuid.UUID
		if user := UserFromCtx(r.Context()); user != nil {
			userID = &user.ID
		}
		var agent *string
		if ua := r.UserAgent(); ua != "" {
			agent = &ua
		}

		action := r.Method + " " + r.URL.Path
		// Detached from the request context so client disconnects do not
		// cancel the insert.
		ctx := context.WithoutCancel(r.Context())
		if err := a.activity.Record(ctx, userID, action, ClientIP(r), agent); err != nil {
			slog.Warn("activity record failed", "action", action, "error", err)
		}
	})
}
