package models

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationTournamentRegistration NotificationType = "tournament_registration"
	NotificationRegistrationStatus     NotificationType = "registration_status"
)

type Notification struct {
	ID        string           `json:"id" db:"id"`
	ProfileID string           `json:"profile_id" db:"profile_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
