package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"inkwell/internal/store"
)

// A failed notification insert must never fail the follow itself; the
// edge is committed and the response still reports success.
func TestFollowSurvivesNotificationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	h := NewUsers(store.NewUserStore(db), store.NewSocialStore(db), store.NewNotificationStore(db))

	follower := subscriber()
	targetID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("target").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			targetID.String(), "target", "target@example.com", "x", "Target",
			nil, nil, nil, nil, nil, "author", true, false,
			nil, nil, nil, false, now, now,
		))
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(follower.ID, targetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnError(errors.New("connection reset"))

	w := httptest.NewRecorder()
	h.Follow(w, request(t, "POST", "", follower, map[string]string{"username": "target"}))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if want := `{"following":true}`; w.Body.String() != want+"\n" {
		t.Errorf("body: got %q, want %q", w.Body.String(), want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
