package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sportsfilio/tournament-hub/models"
)

var ErrOrganizerActionNotFound = errors.New("organizer action not found")

type OrganizerActionRepository interface {
	// Upsert records a decision, overwriting the previous row for the same
	// (tournament_id, participant_id) pair.
	Upsert(ctx context.Context, action *models.OrganizerAction) error
	GetByTournamentAndParticipant(ctx context.Context, tournamentID, participantID string) (*models.OrganizerAction, error)
}

type postgresOrganizerActionRepository struct {
	db *sql.DB
}

func NewPostgresOrganizerActionRepository(db *sql.DB) OrganizerActionRepository {
	return &postgresOrganizerActionRepository{db: db}
}

func (r *postgresOrganizerActionRepository) Upsert(ctx context.Context, a *models.OrganizerAction) error {
	query := `
		INSERT INTO tournament_organizer_actions (tournament_id, participant_id, action, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tournament_id, participant_id)
		DO UPDATE SET action = EXCLUDED.action, notes = EXCLUDED.notes
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.TournamentID, a.ParticipantID, a.Action, a.Notes,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert organizer action: %w", err)
	}
	return nil
}

func (r *postgresOrganizerActionRepository) GetByTournamentAndParticipant(ctx context.Context, tournamentID, participantID string) (*models.OrganizerAction, error) {
	query := `
		SELECT tournament_id, participant_id, action, notes, created_at
		FROM tournament_organizer_actions
		WHERE tournament_id = $1 AND participant_id = $2`

	a := &models.OrganizerAction{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, participantID).Scan(
		&a.TournamentID, &a.ParticipantID, &a.Action, &a.Notes, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerActionNotFound
		}
		return nil, fmt.Errorf("failed to find organizer action: %w", err)
	}
	return a, nil
}
