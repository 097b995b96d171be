package store

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// NewsletterStore handles newsletter subscriptions. Unsubscribing flips
// is_active so a later resubscribe reuses the row.
type NewsletterStore struct {
	db *sql.DB
}

// NewNewsletterStore creates a new NewsletterStore with the given
// database connection.
func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

// Subscribe adds or reactivates a subscription for the email.
func (s *NewsletterStore) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	sub := &models.Subscriber{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscribers (email) VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET is_active = TRUE
		RETURNING id, email, is_active, created_at
	`, email).Scan(&sub.ID, &sub.Email, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return sub, nil
}

// Unsubscribe deactivates the subscription if present.
func (s *NewsletterStore) Unsubscribe(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers SET is_active = FALSE WHERE email = $1
	`, email)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

// ListActive returns all active subscribers.
func (s *NewsletterStore) ListActive(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, is_active, created_at
		FROM newsletter_subscribers
		WHERE is_active = TRUE
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.IsActive, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
