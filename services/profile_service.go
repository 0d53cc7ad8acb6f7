package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sportsfilio/tournament-hub/auth"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
)

type ProfileService struct {
	profiles repositories.ProfileRepository
}

func NewProfileService(profiles repositories.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// EnsureProfile returns the principal's profile row, provisioning one from
// the session identity when it does not exist yet. Every operation that
// needs a profile reference calls this before writing, instead of relying
// on inline fallbacks at call sites.
func (s *ProfileService) EnsureProfile(ctx context.Context, principal auth.Principal) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, principal.ProfileID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	profile = &models.Profile{
		ID:    principal.ProfileID,
		Email: principal.Email,
		Name:  displayNameFor(principal),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// Lost a provisioning race: the row exists now, use it.
		if errors.Is(err, repositories.ErrProfileIDConflict) {
			return s.profiles.GetByID(ctx, principal.ProfileID)
		}
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func displayNameFor(p auth.Principal) string {
	if p.Name != "" {
		return p.Name
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return "User"
}
