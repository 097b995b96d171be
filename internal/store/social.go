package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// SocialStore handles follows, likes, and bookmarks. All writes are
// idempotent: repeating them never errors or duplicates rows.
type SocialStore struct {
	db *sql.DB
}

// NewSocialStore creates a new SocialStore with the given database connection.
func NewSocialStore(db *sql.DB) *SocialStore {
	return &SocialStore{db: db}
}

// Follow records that follower follows following. Returns true if the
// row was newly created, false if it already existed.
func (s *SocialStore) Follow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("follow rows affected: %w", err)
	}
	return n > 0, nil
}

// Unfollow removes the follow edge if present.
func (s *SocialStore) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

// IsFollowing reports whether the edge exists.
func (s *SocialStore) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var following bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)
	`, followerID, followingID).Scan(&following)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return following, nil
}

// Followers returns the public profiles of users following userID.
func (s *SocialStore) Followers(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	return s.listEdge(ctx, userID, `f.following_id = $1`, `f.follower_id`)
}

// Following returns the public profiles of users userID follows.
func (s *SocialStore) Following(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	return s.listEdge(ctx, userID, `f.follower_id = $1`, `f.following_id`)
}

func (s *SocialStore) listEdge(ctx context.Context, userID uuid.UUID, cond, joinCol string) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.display_name, u.bio, u.avatar, u.role, u.created_at
		FROM follows f
		JOIN users u ON u.id = `+joinCol+`
		WHERE `+cond+`
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list follow edge: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.Avatar, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ToggleLike flips the user's like on a post and returns the new state
// plus the resulting like count.
func (s *SocialStore) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (liked bool, count int, err error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like delete: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("toggle like rows affected: %w", err)
	}

	if removed == 0 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, postID)
		if err != nil {
			return false, 0, fmt.Errorf("toggle like insert: %w", err)
		}
		liked = true
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("count likes: %w", err)
	}
	return liked, count, nil
}

// HasLiked reports whether the user has liked the post.
func (s *SocialStore) HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("has liked: %w", err)
	}
	return liked, nil
}

// Bookmark saves a post for the user. Idempotent.
func (s *SocialStore) Bookmark(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, postID)
	if err != nil {
		return fmt.Errorf("bookmark: %w", err)
	}
	return nil
}

// Unbookmark removes a saved post if present.
func (s *SocialStore) Unbookmark(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return fmt.Errorf("unbookmark: %w", err)
	}
	return nil
}

// Bookmarks returns the user's saved posts, newest saved first.
func (s *SocialStore) Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, summarySelect+`
		JOIN bookmarks b ON b.post_id = p.id
		WHERE b.user_id = $1 AND p.status = 'published'
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var posts []models.PostSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post summary: %w", err)
		}
		posts = append(posts, sum)
	}
	return posts, rows.Err()
}
