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
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileEmailConflict = errors.New("profile email already in use")
	ErrProfileIDConflict    = errors.New("profile id already exists")
)

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO profiles (id, email, name, avatar_key, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Email, p.Name, p.AvatarKey, p.PasswordHash,
	).Scan(&p.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "profiles_pkey" {
				return ErrProfileIDConflict
			}
			return ErrProfileEmailConflict
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT id, email, name, avatar_key, password_hash, created_at FROM profiles WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT id, email, name, avatar_key, password_hash, created_at FROM profiles WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *postgresProfileRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.Name, &p.AvatarKey, &p.PasswordHash, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return p, nil
}
