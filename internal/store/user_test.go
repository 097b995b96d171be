package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestUserStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u := testUser(t, db, models.RoleAuthor)
	if u.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if u.Role != models.RoleAuthor {
		t.Errorf("role: got %q, want author", u.Role)
	}
	if u.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}

	byEmail, err := s.FindByEmail(context.Background(), u.Email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Error("FindByEmail did not return the created user")
	}

	byUsername, err := s.FindByUsername(context.Background(), u.Username)
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if byUsername == nil || byUsername.ID != u.ID {
		t.Error("FindByUsername did not return the created user")
	}

	missing, _ := s.FindByEmail(context.Background(), "nobody@example.com")
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleAuthor)

	if !s.CheckPassword(u, "password123") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserStoreSetPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleAuthor)

	if err := s.SetPassword(context.Background(), u.ID, "newpass456"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	reloaded, _ := s.FindByID(context.Background(), u.ID)
	if !s.CheckPassword(reloaded, "newpass456") {
		t.Error("new password rejected")
	}
	if s.CheckPassword(reloaded, "password123") {
		t.Error("old password still accepted")
	}
}

func TestUserStoreVerifyToken(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleAuthor)

	token := uuid.NewString()
	if err := s.SetVerifyToken(context.Background(), u.ID, token, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetVerifyToken: %v", err)
	}

	found, err := s.FindByVerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("FindByVerifyToken: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatal("token lookup failed")
	}

	if err := s.MarkVerified(context.Background(), u.ID); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	reloaded, _ := s.FindByID(context.Background(), u.ID)
	if !reloaded.IsVerified {
		t.Error("is_verified not set")
	}
	if reloaded.VerifyToken != nil {
		t.Error("verify token not consumed")
	}

	// Consumed token no longer resolves.
	found, _ = s.FindByVerifyToken(context.Background(), token)
	if found != nil {
		t.Error("consumed token still resolves")
	}
}

func TestUserStoreExpiredVerifyToken(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleAuthor)

	token := uuid.NewString()
	if err := s.SetVerifyToken(context.Background(), u.ID, token, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("SetVerifyToken: %v", err)
	}

	found, err := s.FindByVerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("FindByVerifyToken: %v", err)
	}
	if found != nil {
		t.Error("expired token resolved")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleAdmin)

	if err := s.SetTOTPSecret(context.Background(), u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(context.Background(), u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	reloaded, _ := s.FindByID(context.Background(), u.ID)
	if !reloaded.TOTPEnabled || reloaded.TOTPSecret == nil {
		t.Error("2FA not enabled after setup")
	}

	if err := s.ResetTOTP(context.Background(), u.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	reloaded, _ = s.FindByID(context.Background(), u.ID)
	if reloaded.TOTPEnabled || reloaded.TOTPSecret != nil {
		t.Error("2FA not cleared after reset")
	}
}

func TestUserStoreSuspendAndRole(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleAuthor)

	if err := s.SetSuspended(context.Background(), u.ID, true); err != nil {
		t.Fatalf("SetSuspended: %v", err)
	}
	if err := s.SetRole(context.Background(), u.ID, models.RoleEditor); err != nil {
		t.Fatalf("SetRole: %v", err)
	}

	reloaded, _ := s.FindByID(context.Background(), u.ID)
	if !reloaded.IsSuspended {
		t.Error("is_suspended not set")
	}
	if reloaded.Role != models.RoleEditor {
		t.Errorf("role: got %q, want editor", reloaded.Role)
	}
}

func TestUserStoreProfileCounts(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	author := testUser(t, db, models.RoleAuthor)
	fan := testUser(t, db, models.RoleSubscriber)

	post := testPost(t, db, author.ID, models.PostStatusPublished)
	db.Exec("UPDATE posts SET views = 7, published_at = NOW() WHERE id = $1", post.ID)
	if _, err := NewSocialStore(db).Follow(context.Background(), fan.ID, author.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	p, err := s.Profile(context.Background(), author.Username)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile")
	}
	if p.PostCount != 1 {
		t.Errorf("post count: got %d, want 1", p.PostCount)
	}
	if p.TotalViews != 7 {
		t.Errorf("total views: got %d, want 7", p.TotalViews)
	}
	if p.FollowerCount != 1 {
		t.Errorf("follower count: got %d, want 1", p.FollowerCount)
	}

	missing, _ := s.Profile(context.Background(), "no-such-user")
	if missing != nil {
		t.Error("expected nil for unknown username")
	}
}
