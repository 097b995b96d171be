package store

import (
	"context"
	"testing"

	"inkwell/internal/models"
)

func TestSocialStoreFollowIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewSocialStore(db)
	a := testUser(t, db, models.RoleSubscriber)
	b := testUser(t, db, models.RoleAuthor)

	created, err := s.Follow(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !created {
		t.Error("first follow reported as duplicate")
	}

	created, err = s.Follow(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("repeat Follow: %v", err)
	}
	if created {
		t.Error("repeat follow reported as new")
	}

	following, err := s.IsFollowing(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if !following {
		t.Error("expected edge to exist")
	}

	if err := s.Unfollow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	following, _ = s.IsFollowing(context.Background(), a.ID, b.ID)
	if following {
		t.Error("edge survived unfollow")
	}
}

func TestSocialStoreSelfFollowRejected(t *testing.T) {
	db := testDB(t)
	s := NewSocialStore(db)
	a := testUser(t, db, models.RoleAuthor)

	// The schema CHECK constraint refuses the row.
	if _, err := s.Follow(context.Background(), a.ID, a.ID); err == nil {
		t.Error("self follow accepted")
	}
}

func TestSocialStoreFollowersAndFollowing(t *testing.T) {
	db := testDB(t)
	s := NewSocialStore(db)
	a := testUser(t, db, models.RoleSubscriber)
	b := testUser(t, db, models.RoleAuthor)

	if _, err := s.Follow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	followers, err := s.Followers(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Followers: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != a.ID {
		t.Errorf("followers: got %v, want [%v]", followers, a.ID)
	}

	following, err := s.Following(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Following: %v", err)
	}
	if len(following) != 1 || following[0].ID != b.ID {
		t.Errorf("following: got %v, want [%v]", following, b.ID)
	}
}

func TestSocialStoreToggleLike(t *testing.T) {
	db := testDB(t)
	s := NewSocialStore(db)
	author := testUser(t, db, models.RoleAuthor)
	reader := testUser(t, db, models.RoleSubscriber)
	post := testPost(t, db, author.ID, models.PostStatusPublished)

	liked, count, err := s.ToggleLike(context.Background(), reader.ID, post.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked || count != 1 {
		t.Errorf("first toggle: got liked=%v count=%d, want true 1", liked, count)
	}

	liked, count, err = s.ToggleLike(context.Background(), reader.ID, post.ID)
	if err != nil {
		t.Fatalf("second ToggleLike: %v", err)
	}
	if liked || count != 0 {
		t.Errorf("second toggle: got liked=%v count=%d, want false 0", liked, count)
	}
}

func TestSocialStoreBookmarks(t *testing.T) {
	db := testDB(t)
	s := NewSocialStore(db)
	author := testUser(t, db, models.RoleAuthor)
	reader := testUser(t, db, models.RoleSubscriber)
	post := testPost(t, db, author.ID, models.PostStatusPublished)
	db.Exec("UPDATE posts SET published_at = NOW() WHERE id = $1", post.ID)

	if err := s.Bookmark(context.Background(), reader.ID, post.ID); err != nil {
		t.Fatalf("Bookmark: %v", err)
	}
	// Repeat is a no-op, not an error.
	if err := s.Bookmark(context.Background(), reader.ID, post.ID); err != nil {
		t.Fatalf("repeat Bookmark: %v", err)
	}

	saved, err := s.Bookmarks(context.Background(), reader.ID)
	if err != nil {
		t.Fatalf("Bookmarks: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != post.ID {
		t.Errorf("bookmarks: got %v, want the saved post", saved)
	}

	if err := s.Unbookmark(context.Background(), reader.ID, post.ID); err != nil {
		t.Fatalf("Unbookmark: %v", err)
	}
	saved, _ = s.Bookmarks(context.Background(), reader.ID)
	if len(saved) != 0 {
		t.Errorf("bookmarks after removal: got %d, want 0", len(saved))
	}
}
