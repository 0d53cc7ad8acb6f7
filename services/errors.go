package services

import "errors"

// Errors shared across services and the HTTP mapping layer. Every gateway
// failure is converted to one of these kinds at the workflow boundary.
var (
	// Authentication / authorization
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrNotOrganizer           = errors.New("operation allowed only for the tournament organizer")

	// Validation and business rules, rejected before any network call
	ErrValidationFailed            = errors.New("validation failed")
	ErrRegistrationNameRequired    = errors.New("registrant name is required")
	ErrRegistrationPhoneRequired   = errors.New("registrant phone number is required")
	ErrTransactionIDRequired       = errors.New("payment transaction id is required")
	ErrScreenshotRequired          = errors.New("payment screenshot is required for paid tournaments")
	ErrScreenshotTooLarge          = errors.New("payment screenshot exceeds the 5 MiB size limit")
	ErrDenialNotesRequired         = errors.New("denial requires a non-empty reason")
	ErrInvalidDecision             = errors.New("decision must be approved or denied")
	ErrPasswordTooShort            = errors.New("password is too short")
	ErrTournamentTitleRequired     = errors.New("tournament title is required")
	ErrTournamentInvalidSport      = errors.New("invalid tournament sport")
	ErrTournamentInvalidFormat     = errors.New("invalid tournament format")
	ErrTournamentInvalidVisibility = errors.New("invalid tournament visibility")
	ErrTournamentDatesRequired     = errors.New("tournament start and end dates are required")
	ErrTournamentInvalidDateRange  = errors.New("tournament end date must not be before start date")
	ErrTournamentInvalidCapacity   = errors.New("tournament max participants must be positive")

	// Conflicts
	ErrAlreadyRegistered = errors.New("profile is already registered for this tournament")
	ErrEmailTaken        = errors.New("email address is already in use")
	ErrTournamentFull    = errors.New("tournament registration is full")

	// Not found
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
)
