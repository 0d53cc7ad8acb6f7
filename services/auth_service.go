package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*models.Profile, error)
	SignIn(ctx context.Context, input SignInInput) (*models.Profile, error)
}

type SignUpInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	profiles repositories.ProfileRepository
}

func NewAuthService(profiles repositories.ProfileRepository) AuthService {
	return &authService{profiles: profiles}
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*models.Profile, error) {
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
	}
	if profile.Name == "" {
		profile.Name = "User"
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) SignIn(ctx context.Context, input SignInInput) (*models.Profile, error) {
	profile, err := s.profiles.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}
