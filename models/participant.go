package models

import "time"

// PaymentStatus is the approval state of a registration, independent of
// whether an entry fee was actually required.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentDenied   PaymentStatus = "denied"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentDenied:
		return true
	}
	return false
}

// PaymentDetails holds the registrant-supplied registration fields plus,
// for paid tournaments, the payment proof. Required vs optional fields are
// explicit here; validation happens at the workflow boundary, not in
// rendering code.
type PaymentDetails struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dob"`
	Experience  string `json:"experience,omitempty"`

	TransactionID        *string    `json:"transaction_id,omitempty"`
	PaymentScreenshotURL *string    `json:"payment_screenshot_url,omitempty"`
	SubmittedAt          *time.Time `json:"timestamp,omitempty"`
}

// HasPaymentProof reports whether both a transaction id and a screenshot
// URL are present, which is required before a paid registration may leave
// the pending state.
func (d PaymentDetails) HasPaymentProof() bool {
	return d.TransactionID != nil && *d.TransactionID != "" &&
		d.PaymentScreenshotURL != nil && *d.PaymentScreenshotURL != ""
}

// Participant joins a Profile to a Tournament. Identity is the composite
// (tournament_id, profile_id); the pair is unique.
type Participant struct {
	TournamentID   string         `json:"tournament_id" db:"tournament_id"`
	ProfileID      string         `json:"profile_id" db:"profile_id"`
	PaymentStatus  PaymentStatus  `json:"payment_status" db:"payment_status"`
	PaymentDetails PaymentDetails `json:"payment_details" db:"payment_details"`
	JoinedAt       time.Time      `json:"joined_at" db:"joined_at"`

	// Joined profile data for organizer-facing listings.
	Profile *Profile `json:"profile,omitempty" db:"-"`
}
