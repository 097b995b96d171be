// Package store provides database access methods for all Inkwell
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

const userColumns = `id, username, email, password_hash, display_name, bio, avatar,
	website, twitter, github, role, is_verified, is_suspended,
	verify_token, verify_token_exp, totp_secret, totp_enabled, created_at, updated_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.Bio, &u.Avatar, &u.Website, &u.Twitter, &u.Github,
		&u.Role, &u.IsVerified, &u.IsSuspended,
		&u.VerifyToken, &u.VerifyTokenExp, &u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByVerifyToken retrieves a user holding an unexpired email
// verification token. Returns nil if the token is unknown or expired.
func (s *UserStore) FindByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE verify_token = $1 AND verify_token_exp > NOW()`, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by verify token: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(ctx context.Context, username, email, password, displayName string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		username, email, string(hash), displayName, role))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the user's password hash.
func (s *UserStore) SetPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(hash), userID)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// UpdateProfile modifies the user's public profile fields.
func (s *UserStore) UpdateProfile(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			display_name = $1, bio = $2, avatar = $3,
			website = $4, twitter = $5, github = $6,
			updated_at = NOW()
		WHERE id = $7
	`, u.DisplayName, u.Bio, u.Avatar, u.Website, u.Twitter, u.Github, u.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SetVerifyToken stores an email verification token with its expiry.
func (s *UserStore) SetVerifyToken(ctx context.Context, userID uuid.UUID, token string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET verify_token = $1, verify_token_exp = $2, updated_at = NOW() WHERE id = $3
	`, token, exp, userID)
	if err != nil {
		return fmt.Errorf("set verify token: %w", err)
	}
	return nil
}

// MarkVerified flips is_verified and consumes the verification token.
func (s *UserStore) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_verified = TRUE, verify_token = NULL,
			verify_token_exp = NULL, updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
func (s *UserStore) ResetTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// SetRole changes a user's role. Admin operation.
func (s *UserStore) SetRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2
	`, role, userID)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// SetSuspended flips the suspension flag. Admin operation.
func (s *UserStore) SetSuspended(ctx context.Context, userID uuid.UUID, suspended bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_suspended = $1, updated_at = NOW() WHERE id = $2
	`, suspended, userID)
	if err != nil {
		return fmt.Errorf("set suspended: %w", err)
	}
	return nil
}

// Delete removes a user by ID. Owned rows cascade.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List returns a page of users for the admin panel, optionally filtered
// by a case-insensitive search over username, email, and display name.
func (s *UserStore) List(ctx context.Context, search string, page, limit int) ([]models.User, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = `WHERE username ILIKE $1 OR email ILIKE $1 OR display_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT `+userColumns+` FROM users %s
		 ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// Profile returns the public projection of a user with aggregate counts.
// Returns nil if the username is unknown.
func (s *UserStore) Profile(ctx context.Context, username string) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.display_name, u.bio, u.avatar,
		       u.website, u.twitter, u.github, u.role, u.created_at,
		       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id),
		       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id AND p.status = 'published'),
		       (SELECT COALESCE(SUM(p.views), 0) FROM posts p WHERE p.author_id = u.id AND p.status = 'published'),
		       (SELECT COUNT(*) FROM comments c
		        JOIN posts p ON p.id = c.post_id
		        WHERE p.author_id = u.id)
		FROM users u WHERE u.username = $1
	`, username).Scan(
		&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.Avatar,
		&p.Website, &p.Twitter, &p.Github, &p.Role, &p.CreatedAt,
		&p.FollowerCount, &p.PostCount, &p.TotalViews, &p.TotalComments,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
