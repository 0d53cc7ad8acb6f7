package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sportsfilio/tournament-hub/models"
)

var ErrNotificationProfileInvalid = errors.New("notification profile reference invalid")

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByProfile(ctx context.Context, profileID string, limit int) ([]models.Notification, error)
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	query := `
		INSERT INTO notifications (id, profile_id, type, title, message, read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		n.ID, n.ProfileID, n.Type, n.Title, n.Message,
	).Scan(&n.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrNotificationProfileInvalid
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *postgresNotificationRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, profile_id, type, title, message, read, created_at
		FROM notifications
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}
