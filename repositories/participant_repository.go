package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportsfilio/tournament-hub/models"
)

var (
	ErrParticipantNotFound          = errors.New("participant registration not found")
	ErrParticipantConflict          = errors.New("profile already registered for this tournament")
	ErrParticipantProfileInvalid    = errors.New("participant profile reference invalid")
	ErrParticipantTournamentInvalid = errors.New("participant tournament reference invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	GetByTournamentAndProfile(ctx context.Context, tournamentID, profileID string) (*models.Participant, error)
	// ListPendingByTournament returns pending registrations joined with the
	// registrant's profile name and email, oldest first.
	ListPendingByTournament(ctx context.Context, tournamentID string) ([]*models.Participant, error)
	UpdateStatus(ctx context.Context, tournamentID, profileID string, status models.PaymentStatus) error
	// CountActiveByTournament counts registrations with a non-denied status.
	CountActiveByTournament(ctx context.Context, tournamentID string) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	details, err := json.Marshal(p.PaymentDetails)
	if err != nil {
		return fmt.Errorf("failed to encode payment details: %w", err)
	}

	query := `
		INSERT INTO tournament_participants (tournament_id, profile_id, payment_status, payment_details)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at`

	err = r.db.QueryRowContext(ctx, query,
		p.TournamentID,
		p.ProfileID,
		p.PaymentStatus,
		details,
	).Scan(&p.JoinedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation on (tournament_id, profile_id)
				return ErrParticipantConflict
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "tournament_participants_profile_id_fkey":
					return ErrParticipantProfileInvalid
				case "tournament_participants_tournament_id_fkey":
					return ErrParticipantTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) GetByTournamentAndProfile(ctx context.Context, tournamentID, profileID string) (*models.Participant, error) {
	query := `
		SELECT tournament_id, profile_id, payment_status, payment_details, joined_at
		FROM tournament_participants
		WHERE tournament_id = $1 AND profile_id = $2`

	p := &models.Participant{}
	var details []byte
	err := r.db.QueryRowContext(ctx, query, tournamentID, profileID).Scan(
		&p.TournamentID, &p.ProfileID, &p.PaymentStatus, &details, &p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	if err := json.Unmarshal(details, &p.PaymentDetails); err != nil {
		return nil, fmt.Errorf("failed to decode payment details: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListPendingByTournament(ctx context.Context, tournamentID string) ([]*models.Participant, error) {
	query := `
		SELECT
			p.tournament_id, p.profile_id, p.payment_status, p.payment_details, p.joined_at,
			pr.id, pr.email, pr.name
		FROM tournament_participants p
		JOIN profiles pr ON p.profile_id = pr.id
		WHERE p.tournament_id = $1 AND p.payment_status = $2
		ORDER BY p.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, models.PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var profile models.Profile
		var details []byte

		if err := rows.Scan(
			&p.TournamentID, &p.ProfileID, &p.PaymentStatus, &details, &p.JoinedAt,
			&profile.ID, &profile.Email, &profile.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		if err := json.Unmarshal(details, &p.PaymentDetails); err != nil {
			return nil, fmt.Errorf("failed to decode payment details: %w", err)
		}
		p.Profile = &profile
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, tournamentID, profileID string, status models.PaymentStatus) error {
	query := `UPDATE tournament_participants SET payment_status = $1 WHERE tournament_id = $2 AND profile_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, tournamentID, profileID)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) CountActiveByTournament(ctx context.Context, tournamentID string) (int, error) {
	query := `SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1 AND payment_status <> $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, models.PaymentDenied).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}
