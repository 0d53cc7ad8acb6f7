package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
)

// DecisionInput identifies a pending registration and the organizer's
// verdict on it.
type DecisionInput struct {
	TournamentID string
	ProfileID    string
	Decision     models.OrganizerDecision
	Notes        string
}

// ApprovalService is the organizer-facing workflow: list pending
// registrations for an owned tournament and transition them to approved or
// denied. Organizer identity is re-verified against the database on every
// call rather than inferred from previously fetched data.
type ApprovalService struct {
	participants repositories.ParticipantRepository
	tournaments  repositories.TournamentRepository
	actions      repositories.OrganizerActionRepository
	notifier     *NotificationService
	logger       *slog.Logger
}

func NewApprovalService(
	participants repositories.ParticipantRepository,
	tournaments repositories.TournamentRepository,
	actions repositories.OrganizerActionRepository,
	notifier *NotificationService,
	logger *slog.Logger,
) *ApprovalService {
	return &ApprovalService{
		participants: participants,
		tournaments:  tournaments,
		actions:      actions,
		notifier:     notifier,
		logger:       logger,
	}
}

// verifyOrganizer loads the tournament filtered on both id and organizer.
// A missing row means either an unknown tournament or a caller who does not
// own it; both fail closed as ErrNotOrganizer.
func (s *ApprovalService) verifyOrganizer(ctx context.Context, tournamentID, organizerID string) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByIDAndOrganizer(ctx, tournamentID, organizerID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotOrganizer
		}
		return nil, fmt.Errorf("failed to verify tournament organizer: %w", err)
	}
	return tournament, nil
}

// ListPending returns the tournament's pending registrations, joined with
// each registrant's profile, for the tournament's organizer only.
func (s *ApprovalService) ListPending(ctx context.Context, tournamentID, organizerID string) ([]*models.Participant, error) {
	if _, err := s.verifyOrganizer(ctx, tournamentID, organizerID); err != nil {
		return nil, err
	}
	return s.participants.ListPendingByTournament(ctx, tournamentID)
}

// Decide transitions a registration to the given decision. Effects are
// strictly ordered: status update, then audit upsert, then notification.
// The status update is authoritative; audit and notification are
// best-effort and their failure never rolls it back. Concurrent decisions
// on the same participant resolve last-write-wins.
func (s *ApprovalService) Decide(ctx context.Context, organizerID string, input DecisionInput) (*models.Participant, error) {
	if !input.Decision.Valid() {
		return nil, ErrInvalidDecision
	}
	if input.Decision == models.DecisionDenied && input.Notes == "" {
		return nil, ErrDenialNotesRequired
	}

	tournament, err := s.verifyOrganizer(ctx, input.TournamentID, organizerID)
	if err != nil {
		return nil, err
	}

	status := models.PaymentStatus(input.Decision)
	if err := s.participants.UpdateStatus(ctx, input.TournamentID, input.ProfileID, status); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}

	action := &models.OrganizerAction{
		TournamentID:  input.TournamentID,
		ParticipantID: input.ProfileID,
		Action:        input.Decision,
		Notes:         input.Notes,
	}
	if err := s.actions.Upsert(ctx, action); err != nil {
		// The decision stands even when the audit trail write is lost.
		s.logger.ErrorContext(ctx, "failed to record organizer action",
			slog.String("tournament_id", input.TournamentID),
			slog.String("participant_id", input.ProfileID),
			slog.Any("error", err),
		)
	}

	title := "Tournament Registration Approved"
	message := fmt.Sprintf("Your registration for %s has been approved!", tournament.Title)
	if input.Decision == models.DecisionDenied {
		title = "Tournament Registration Denied"
		message = fmt.Sprintf("Your registration for %s has been denied. Reason: %s", tournament.Title, input.Notes)
	}
	s.notifier.NotifyBestEffort(ctx, input.ProfileID, models.NotificationRegistrationStatus, title, message)

	return s.participants.GetByTournamentAndProfile(ctx, input.TournamentID, input.ProfileID)
}
