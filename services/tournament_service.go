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
	"golang.org/x/sync/errgroup"
)

const qrCodeFolder = "qr_codes"

// countConcurrency bounds the fan-out when annotating listings with
// participant counts.
const countConcurrency = 8

type CreateTournamentInput struct {
	Title           string                  `json:"title"`
	Sport           models.Sport            `json:"sport"`
	StartDate       time.Time               `json:"start_date"`
	EndDate         time.Time               `json:"end_date"`
	Location        string                  `json:"location"`
	MaxParticipants int                     `json:"max_participants"`
	EntryFee        string                  `json:"entry_fee"`
	Format          models.TournamentFormat `json:"format"`
	Description     *string                 `json:"description"`
	Rules           *string                 `json:"rules"`
	Visibility      models.Visibility       `json:"visibility"`
	PaymentUPIID    *string                 `json:"payment_upi_id"`
}

// TournamentService implements the query/creation layer: public listings
// and detail reads annotated with derived participant counts, and
// organizer-side creation with profile auto-provisioning.
type TournamentService struct {
	tournaments  repositories.TournamentRepository
	participants repositories.ParticipantRepository
	profiles     *ProfileService
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewTournamentService(
	tournaments repositories.TournamentRepository,
	participants repositories.ParticipantRepository,
	profiles *ProfileService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		tournaments:  tournaments,
		participants: participants,
		profiles:     profiles,
		uploader:     uploader,
		logger:       logger,
	}
}

// ListPublic returns all public tournaments annotated with
// participants_count. Denied registrations are excluded from the count.
func (s *TournamentService) ListPublic(ctx context.Context, filter repositories.ListPublicTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournaments.ListPublic(ctx, filter)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for i := range tournaments {
		g.Go(func() error {
			count, err := s.participants.CountActiveByTournament(gctx, tournaments[i].ID)
			if err != nil {
				return err
			}
			tournaments[i].ParticipantsCount = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to annotate participant counts: %w", err)
	}
	return tournaments, nil
}

// Get returns one tournament annotated with participants_count and the
// organizer's display name.
func (s *TournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.participants.CountActiveByTournament(gctx, tournament.ID)
		if err != nil {
			return err
		}
		tournament.ParticipantsCount = count
		return nil
	})
	g.Go(func() error {
		organizer, err := s.profiles.GetByID(gctx, tournament.OrganizerID)
		if err != nil {
			// A dangling organizer reference should not hide the tournament.
			s.logger.WarnContext(gctx, "failed to resolve organizer name",
				slog.String("tournament_id", tournament.ID),
				slog.Any("error", err),
			)
			return nil
		}
		tournament.OrganizerName = &organizer.Name
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to annotate tournament details: %w", err)
	}
	return tournament, nil
}

func validateCreateTournamentInput(input CreateTournamentInput) error {
	switch {
	case input.Title == "":
		return ErrTournamentTitleRequired
	case !input.Sport.Valid():
		return ErrTournamentInvalidSport
	case !input.Format.Valid():
		return ErrTournamentInvalidFormat
	case input.StartDate.IsZero() || input.EndDate.IsZero():
		return ErrTournamentDatesRequired
	case input.EndDate.Before(input.StartDate):
		return ErrTournamentInvalidDateRange
	case input.MaxParticipants <= 0:
		return ErrTournamentInvalidCapacity
	case input.Visibility != "" && !input.Visibility.Valid():
		return ErrTournamentInvalidVisibility
	}
	return nil
}

// Create validates the input, provisions the caller's profile row when
// missing, uploads the optional payment QR code, then inserts the
// tournament owned by the caller.
func (s *TournamentService) Create(ctx context.Context, principal auth.Principal, input CreateTournamentInput, qrCode *FileUpload) (*models.Tournament, error) {
	if err := validateCreateTournamentInput(input); err != nil {
		return nil, err
	}

	if _, err := s.profiles.EnsureProfile(ctx, principal); err != nil {
		return nil, err
	}

	var qrCodeURL *string
	if qrCode != nil {
		key, err := buildObjectKey(qrCodeFolder, qrCode.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		result, err := s.uploader.Upload(ctx, key, qrCode.ContentType, qrCode.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload payment QR code: %w", err)
		}
		qrCodeURL = &result.Location
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	tournament := &models.Tournament{
		Title:           input.Title,
		Sport:           input.Sport,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Location:        input.Location,
		MaxParticipants: input.MaxParticipants,
		EntryFee:        input.EntryFee,
		Format:          input.Format,
		Description:     input.Description,
		Rules:           input.Rules,
		Visibility:      visibility,
		Status:          models.StatusUpcoming,
		OrganizerID:     principal.ProfileID,
		PaymentQRCode:   qrCodeURL,
		PaymentUPIID:    input.PaymentUPIID,
	}

	if err := s.tournaments.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentInvalidOrganizer) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}
