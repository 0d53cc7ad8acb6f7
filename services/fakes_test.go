package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
	"github.com/sportsfilio/tournament-hub/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	// createErr, when set, fails the next Create call.
	createErr error
	creates   int
}

func newFakeProfileRepo(profiles ...*models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("profile-%d", len(r.profiles)+1)
	}
	if _, ok := r.profiles[p.ID]; ok {
		return repositories.ErrProfileIDConflict
	}
	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return repositories.ErrProfileEmailConflict
		}
	}
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[string]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[string]*models.Tournament)}
	for _, t := range tournaments {
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = fmt.Sprintf("tournament-%d", len(r.tournaments)+1)
	}
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) GetByIDAndOrganizer(ctx context.Context, id, organizerID string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok || t.OrganizerID != organizerID {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) ListPublic(ctx context.Context, filter repositories.ListPublicTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tournament
	for _, t := range r.tournaments {
		if t.Visibility != models.VisibilityPublic {
			continue
		}
		if filter.Sport != nil && t.Sport != *filter.Sport {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func participantKey(tournamentID, profileID string) string {
	return tournamentID + "/" + profileID
}

type fakeParticipantRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Participant
	// countErr, when set, fails CountActiveByTournament.
	countErr  error
	updateErr error
}

func newFakeParticipantRepo(rows ...*models.Participant) *fakeParticipantRepo {
	r := &fakeParticipantRepo{rows: make(map[string]*models.Participant)}
	for _, p := range rows {
		r.rows[participantKey(p.TournamentID, p.ProfileID)] = p
	}
	return r
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := participantKey(p.TournamentID, p.ProfileID)
	if _, ok := r.rows[key]; ok {
		return repositories.ErrParticipantConflict
	}
	clone := *p
	r.rows[key] = &clone
	return nil
}

func (r *fakeParticipantRepo) GetByTournamentAndProfile(ctx context.Context, tournamentID, profileID string) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[participantKey(tournamentID, profileID)]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeParticipantRepo) ListPendingByTournament(ctx context.Context, tournamentID string) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Participant
	for _, p := range r.rows {
		if p.TournamentID == tournamentID && p.PaymentStatus == models.PaymentPending {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *fakeParticipantRepo) UpdateStatus(ctx context.Context, tournamentID, profileID string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.rows[participantKey(tournamentID, profileID)]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.PaymentStatus = status
	return nil
}

func (r *fakeParticipantRepo) CountActiveByTournament(ctx context.Context, tournamentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	count := 0
	for _, p := range r.rows {
		if p.TournamentID == tournamentID && p.PaymentStatus != models.PaymentDenied {
			count++
		}
	}
	return count, nil
}

type fakeActionRepo struct {
	mu        sync.Mutex
	actions   map[string]*models.OrganizerAction
	upsertErr error
}

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{actions: make(map[string]*models.OrganizerAction)}
}

func (r *fakeActionRepo) Upsert(ctx context.Context, action *models.OrganizerAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	clone := *action
	r.actions[participantKey(action.TournamentID, action.ParticipantID)] = &clone
	return nil
}

func (r *fakeActionRepo) GetByTournamentAndParticipant(ctx context.Context, tournamentID, participantID string) (*models.OrganizerAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[participantKey(tournamentID, participantID)]
	if !ok {
		return nil, repositories.ErrOrganizerActionNotFound
	}
	clone := *a
	return &clone, nil
}

type fakeNotificationRepo struct {
	mu        sync.Mutex
	rows      []models.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == "" {
		n.ID = fmt.Sprintf("notification-%d", len(r.rows)+1)
	}
	r.rows = append(r.rows, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByProfile(ctx context.Context, profileID string, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].ProfileID == profileID {
			out = append(out, r.rows[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) forProfile(profileID string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.ProfileID == profileID {
			out = append(out, n)
		}
	}
	return out
}

type uploadedFile struct {
	Key         string
	ContentType string
}

type fakeUploader struct {
	mu        sync.Mutex
	uploads   []uploadedFile
	uploadErr error
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	u.uploads = append(u.uploads, uploadedFile{Key: key, ContentType: contentType})
	return &storage.UploadResult{
		Key:      key,
		Location: "https://cdn.example.com/" + key,
		ETag:     "etag",
	}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
