package models

import (
	"strings"
	"time"
)

// Sport enumerates the sports a tournament can be created for,
// matching the ENUM in the database.
type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
	SportVolleyball Sport = "volleyball"
	SportCricket    Sport = "cricket"
)

func (s Sport) Valid() bool {
	switch s {
	case SportFootball, SportBasketball, SportTennis, SportVolleyball, SportCricket:
		return true
	}
	return false
}

// TournamentFormat enumerates the supported competition formats.
type TournamentFormat string

const (
	FormatKnockout   TournamentFormat = "knockout"
	FormatLeague     TournamentFormat = "league"
	FormatGroups     TournamentFormat = "groups"
	FormatRoundRobin TournamentFormat = "roundrobin"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatKnockout, FormatLeague, FormatGroups, FormatRoundRobin:
		return true
	}
	return false
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// TournamentStatus is a lifecycle tag. New tournaments start as "upcoming".
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
	StatusCanceled  TournamentStatus = "canceled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Tournament is an organizer-authored event.
type Tournament struct {
	ID              string           `json:"id" db:"id"`
	Title           string           `json:"title" db:"title"`
	Sport           Sport            `json:"sport" db:"sport"`
	StartDate       time.Time        `json:"start_date" db:"start_date"`
	EndDate         time.Time        `json:"end_date" db:"end_date"`
	Location        string           `json:"location" db:"location"`
	MaxParticipants int              `json:"max_participants" db:"max_participants"`
	EntryFee        string           `json:"entry_fee" db:"entry_fee"`
	Format          TournamentFormat `json:"format" db:"format"`
	Description     *string          `json:"description,omitempty" db:"description"`
	Rules           *string          `json:"rules,omitempty" db:"rules"`
	Visibility      Visibility       `json:"visibility" db:"visibility"`
	Status          TournamentStatus `json:"status" db:"status"`
	OrganizerID     string           `json:"organizer_id" db:"organizer_id"`
	PaymentQRCode   *string          `json:"payment_qr_code,omitempty" db:"payment_qr_code"`
	PaymentUPIID    *string          `json:"payment_upi_id,omitempty" db:"payment_upi_id"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`

	// Derived at read time, never stored.
	ParticipantsCount int     `json:"participants_count" db:"-"`
	OrganizerName     *string `json:"organizer_name,omitempty" db:"-"`
}

// RequiresPayment reports whether registering for the tournament involves
// the payment step. An absent fee, "0" and "free" all mean a free entry.
func (t *Tournament) RequiresPayment() bool {
	fee := strings.TrimSpace(t.EntryFee)
	if fee == "" || fee == "0" {
		return false
	}
	return !strings.EqualFold(fee, "free")
}
