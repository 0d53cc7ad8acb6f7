package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sportsfilio/tournament-hub/auth"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
	"github.com/sportsfilio/tournament-hub/storage"
)

const screenshotFolder = "payment_screenshots"

// RegistrationInput carries the registrant-supplied fields from the first
// workflow step.
type RegistrationInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dob"`
	Experience  string `json:"experience"`
}

// PaymentProof carries the payment step's fields. Required whenever the
// tournament charges an entry fee.
type PaymentProof struct {
	TransactionID string
	Screenshot    *FileUpload
}

// RegistrationService persists tournament registrations: screenshot upload,
// participant insert, then a best-effort notification to the organizer, in
// that order. At most one participant row is written per call; a duplicate
// registration fails on the database's composite uniqueness constraint.
type RegistrationService struct {
	participants repositories.ParticipantRepository
	tournaments  repositories.TournamentRepository
	profiles     *ProfileService
	uploader     storage.FileUploader
	notifier     *NotificationService
	logger       *slog.Logger
}

func NewRegistrationService(
	participants repositories.ParticipantRepository,
	tournaments repositories.TournamentRepository,
	profiles *ProfileService,
	uploader storage.FileUploader,
	notifier *NotificationService,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		participants: participants,
		tournaments:  tournaments,
		profiles:     profiles,
		uploader:     uploader,
		notifier:     notifier,
		logger:       logger,
	}
}

// ValidateProof checks the payment step's client-side preconditions without
// touching the network.
func ValidateProof(proof *PaymentProof) error {
	if proof == nil || proof.TransactionID == "" {
		return ErrTransactionIDRequired
	}
	if proof.Screenshot == nil {
		return ErrScreenshotRequired
	}
	if proof.Screenshot.Size > MaxScreenshotSize {
		return ErrScreenshotTooLarge
	}
	return nil
}

// ValidateRegistrationInput checks the registration step's required fields
// without touching the network.
func ValidateRegistrationInput(input RegistrationInput) error {
	if input.Name == "" {
		return ErrRegistrationNameRequired
	}
	if input.Phone == "" {
		return ErrRegistrationPhoneRequired
	}
	return nil
}

// Register writes exactly one participant row with payment_status "pending".
// For paid tournaments the proof is validated and its screenshot uploaded
// before the insert; for free tournaments proof must be nil. The organizer
// notification is emitted only after the row is persisted and its failure
// never surfaces to the registrant.
func (s *RegistrationService) Register(
	ctx context.Context,
	tournamentID string,
	principal auth.Principal,
	input RegistrationInput,
	proof *PaymentProof,
) (*models.Participant, error) {
	if err := ValidateRegistrationInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	if tournament.RequiresPayment() {
		if err := ValidateProof(proof); err != nil {
			return nil, err
		}
	}

	if _, err := s.profiles.EnsureProfile(ctx, principal); err != nil {
		return nil, err
	}

	if tournament.MaxParticipants > 0 {
		count, err := s.participants.CountActiveByTournament(ctx, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check tournament capacity: %w", err)
		}
		if count >= tournament.MaxParticipants {
			return nil, ErrTournamentFull
		}
	}

	now := time.Now().UTC()
	details := models.PaymentDetails{
		Name:        input.Name,
		Phone:       input.Phone,
		DateOfBirth: input.DateOfBirth,
		Experience:  input.Experience,
		SubmittedAt: &now,
	}

	if tournament.RequiresPayment() {
		key, err := buildObjectKey(screenshotFolder, proof.Screenshot.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		result, err := s.uploader.Upload(ctx, key, proof.Screenshot.ContentType, proof.Screenshot.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload payment screenshot: %w", err)
		}
		details.TransactionID = &proof.TransactionID
		details.PaymentScreenshotURL = &result.Location
	}

	participant := &models.Participant{
		TournamentID:   tournamentID,
		ProfileID:      principal.ProfileID,
		PaymentStatus:  models.PaymentPending,
		PaymentDetails: details,
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repositories.ErrParticipantTournamentInvalid):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrParticipantProfileInvalid):
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to persist registration: %w", err)
	}

	s.notifier.NotifyBestEffort(ctx,
		tournament.OrganizerID,
		models.NotificationTournamentRegistration,
		"New Tournament Registration",
		fmt.Sprintf("A new player has registered for your tournament: %s", tournament.Title),
	)

	return participant, nil
}
