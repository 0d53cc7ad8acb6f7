package services

import (
	"context"
	"testing"

	"github.com/sportsfilio/tournament-hub/auth"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
)

func TestEnsureProfileReturnsExisting(t *testing.T) {
	repo := newFakeProfileRepo(&models.Profile{ID: "p1", Email: "a@b.com", Name: "Asha"})
	svc := NewProfileService(repo)

	profile, err := svc.EnsureProfile(context.Background(), auth.Principal{ProfileID: "p1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if profile.Name != "Asha" {
		t.Errorf("name = %q, want existing row untouched", profile.Name)
	}
	if repo.creates != 0 {
		t.Errorf("creates = %d, want 0", repo.creates)
	}
}

func TestEnsureProfileProvisions(t *testing.T) {
	tests := []struct {
		name      string
		principal auth.Principal
		wantName  string
	}{
		{"uses session name", auth.Principal{ProfileID: "p1", Email: "a@b.com", Name: "Asha"}, "Asha"},
		{"falls back to email local part", auth.Principal{ProfileID: "p1", Email: "asha.rao@b.com"}, "asha.rao"},
		{"falls back to placeholder", auth.Principal{ProfileID: "p1"}, "User"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeProfileRepo()
			svc := NewProfileService(repo)

			profile, err := svc.EnsureProfile(context.Background(), tc.principal)
			if err != nil {
				t.Fatalf("EnsureProfile: %v", err)
			}
			if profile.Name != tc.wantName {
				t.Errorf("name = %q, want %q", profile.Name, tc.wantName)
			}
			if _, err := repo.GetByID(context.Background(), "p1"); err != nil {
				t.Errorf("provisioned row: %v", err)
			}
		})
	}
}

func TestEnsureProfileLosesProvisioningRace(t *testing.T) {
	repo := newFakeProfileRepo(&models.Profile{ID: "p1", Email: "a@b.com", Name: "Winner"})
	// GetByID must miss first so Create runs and hits the conflict.
	repo.createErr = repositories.ErrProfileIDConflict

	svc := NewProfileService(&racingProfileRepo{fakeProfileRepo: repo})

	profile, err := svc.EnsureProfile(context.Background(), auth.Principal{ProfileID: "p1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if profile.Name != "Winner" {
		t.Errorf("name = %q, want the row that won the race", profile.Name)
	}
}

// racingProfileRepo misses the first GetByID to simulate a concurrent
// provisioner inserting the row between the read and the write.
type racingProfileRepo struct {
	*fakeProfileRepo
	gets int
}

func (r *racingProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	r.gets++
	if r.gets == 1 {
		return nil, repositories.ErrProfileNotFound
	}
	return r.fakeProfileRepo.GetByID(ctx, id)
}
