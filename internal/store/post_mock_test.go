package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Mock-backed tests pin down the SQL shape of the queries that matter
// for safety: filters must be bound as parameters, and the view counter
// must be a single atomic statement.

func TestPostStoreModerationBindsStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE status = \$1`).
		WithArgs(models.PostStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM posts WHERE status = \$1\s+ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(models.PostStatusPending, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := NewPostStore(db)
	if _, _, err := s.Moderation(context.Background(), models.PostStatusPending, 1, 10); err != nil {
		t.Fatalf("Moderation: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostStoreIncrementViewsSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(`UPDATE posts SET views = views \+ 1 WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewPostStore(db).IncrementViews(context.Background(), id); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostStoreSlugExistsBindsExclude(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT EXISTS .+ slug = \$1 AND id <> \$2`).
		WithArgs("hello-world", id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewPostStore(db).SlugExists(context.Background(), "hello-world", id)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
