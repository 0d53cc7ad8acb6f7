package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sportsfilio/tournament-hub/models"
)

var (
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentInvalidOrganizer = errors.New("invalid organizer reference")
)

type ListPublicTournamentsFilter struct {
	Sport  *models.Sport
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	// GetByIDAndOrganizer fetches a tournament filtered on both id and
	// organizer, failing closed with ErrTournamentNotFound when the caller
	// does not own it.
	GetByIDAndOrganizer(ctx context.Context, id, organizerID string) (*models.Tournament, error)
	ListPublic(ctx context.Context, filter ListPublicTournamentsFilter) ([]models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	id, title, sport, start_date, end_date, location, max_participants,
	entry_fee, format, description, rules, visibility, status, organizer_id,
	payment_qr_code, payment_upi_id, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tournaments (
			id, title, sport, start_date, end_date, location, max_participants,
			entry_fee, format, description, rules, visibility, status, organizer_id,
			payment_qr_code, payment_upi_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Title, t.Sport, t.StartDate, t.EndDate, t.Location, t.MaxParticipants,
		t.EntryFee, t.Format, t.Description, t.Rules, t.Visibility, t.Status, t.OrganizerID,
		t.PaymentQRCode, t.PaymentUPIID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if pqErr.Constraint == "tournaments_organizer_id_fkey" {
				return ErrTournamentInvalidOrganizer
			}
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresTournamentRepository) GetByIDAndOrganizer(ctx context.Context, id, organizerID string) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1 AND organizer_id = $2`
	return r.findOne(ctx, query, id, organizerID)
}

func (r *postgresTournamentRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := r.scanTournament(r.db.QueryRowContext(ctx, query, args...), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Tournament) error {
	return rowScanner.Scan(
		&t.ID, &t.Title, &t.Sport, &t.StartDate, &t.EndDate, &t.Location, &t.MaxParticipants,
		&t.EntryFee, &t.Format, &t.Description, &t.Rules, &t.Visibility, &t.Status, &t.OrganizerID,
		&t.PaymentQRCode, &t.PaymentUPIID, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *postgresTournamentRepository) ListPublic(ctx context.Context, filter ListPublicTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE visibility = $1`
	args := []interface{}{models.VisibilityPublic}
	argID := 2

	if filter.Sport != nil {
		query += fmt.Sprintf(" AND sport = $%d", argID)
		args = append(args, *filter.Sport)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY start_date ASC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list public tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := r.scanTournament(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}
