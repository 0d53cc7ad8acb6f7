package services

import (
	"context"
	"log/slog"

	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
)

// NotificationPusher delivers a created notification to live sessions.
// Satisfied by realtime.Hub.
type NotificationPusher interface {
	PushToProfile(profileID string, msgType string, payload interface{})
}

// NotificationService is the single writer of notification rows.
type NotificationService struct {
	notifications repositories.NotificationRepository
	pusher        NotificationPusher
	logger        *slog.Logger
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	pusher NotificationPusher,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		pusher:        pusher,
		logger:        logger,
	}
}

// Create persists a notification and pushes it to any live session of the
// recipient. Returns the stored notification with its server-assigned id.
func (s *NotificationService) Create(ctx context.Context, profileID string, typ models.NotificationType, title, message string) (*models.Notification, error) {
	n := &models.Notification{
		ProfileID: profileID,
		Type:      typ,
		Title:     title,
		Message:   message,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	if s.pusher != nil {
		s.pusher.PushToProfile(profileID, "NOTIFICATION_CREATED", n)
	}
	return n, nil
}

// NotifyBestEffort creates a notification as a best-effort side effect of a
// primary operation that already succeeded. Failures are logged and never
// propagated to the caller.
func (s *NotificationService) NotifyBestEffort(ctx context.Context, profileID string, typ models.NotificationType, title, message string) {
	if _, err := s.Create(ctx, profileID, typ, title, message); err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver notification",
			slog.String("profile_id", profileID),
			slog.String("type", string(typ)),
			slog.Any("error", err),
		)
	}
}

// ListForProfile returns the recipient's notifications, newest first.
// Read/dismissal state is display-only and managed elsewhere.
func (s *NotificationService) ListForProfile(ctx context.Context, profileID string, limit int) ([]models.Notification, error) {
	return s.notifications.ListByProfile(ctx, profileID, limit)
}
