package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// Фейковые репозитории держат данные в памяти. Методы, которые тест не
// реализует, паникуют через nil-встраивание интерфейса.

type fakeTournamentRepo struct {
	repositories.TournamentRepository
	mu    sync.Mutex
	items map[string]*models.Tournament

	// cascade повторяет ON DELETE CASCADE для standings.
	cascade *fakeStandingRepo
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{items: make(map[string]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	cp := *t
	r.items[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	t.UpdatedAt = time.Now()
	cp := *t
	r.items[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return repositories.ErrTournamentNotFound
	}
	delete(r.items, id)
	r.mu.Unlock()

	if r.cascade != nil {
		return r.cascade.DeleteByTournament(ctx, nil, id)
	}
	return nil
}

type fakePlayerRepo struct {
	repositories.PlayerRepository
	mu    sync.Mutex
	items map[string]*models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{items: make(map[string]*models.Player)}
}

func (r *fakePlayerRepo) Create(ctx context.Context, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) ListAll(ctx context.Context) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakePlayerRepo) CountExisting(ctx context.Context, exec repositories.SQLExecutor, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			n++
		}
	}
	return n, nil
}

type fakeStandingRepo struct {
	repositories.StandingRepository
	mu        sync.Mutex
	items     map[string]*models.Standing
	writes    int
	insertErr error

	// tournaments дает даты начала для ListSeason.
	tournaments *fakeTournamentRepo
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{items: make(map[string]*models.Standing)}
}

func (r *fakeStandingRepo) Create(ctx context.Context, s *models.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TournamentID == s.TournamentID && existing.PlayerID == s.PlayerID {
			return repositories.ErrStandingExists
		}
	}
	r.writes++
	s.ID = uuid.NewString()
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *fakeStandingRepo) GetByID(ctx context.Context, id string) (*models.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrStandingNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, limit int) ([]models.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Standing{}
	for _, s := range r.items {
		if s.TournamentID == tournamentID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeStandingRepo) ListSurvivors(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	all, _ := r.ListByTournament(ctx, nil, tournamentID, 0)
	out := []models.Standing{}
	for _, s := range all {
		if s.IsSurvivor {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Chips > out[j].Chips })
	return out, nil
}

// ListSeason keeps standings whose tournament starts within [from, to).
func (r *fakeStandingRepo) ListSeason(ctx context.Context, from, to *time.Time) ([]models.Standing, error) {
	r.mu.Lock()
	all := make([]models.Standing, 0, len(r.items))
	for _, s := range r.items {
		all = append(all, *s)
	}
	r.mu.Unlock()

	out := make([]models.Standing, 0, len(all))
	for _, s := range all {
		var start *time.Time
		if r.tournaments != nil {
			if t, err := r.tournaments.GetByID(ctx, s.TournamentID); err == nil {
				start = t.StartDate
				s.Tournament = &models.TournamentSummary{ID: t.ID, Name: t.Name, StartDate: t.StartDate, Status: t.Status}
			}
		}
		if from != nil && (start == nil || start.Before(*from)) {
			continue
		}
		if to != nil && (start == nil || !start.Before(*to)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStandingRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	for id, s := range r.items {
		if s.TournamentID == tournamentID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeStandingRepo) InsertBatch(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, standings []models.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.writes++
	for i := range standings {
		standings[i].ID = uuid.NewString()
		standings[i].TournamentID = tournamentID
		cp := standings[i]
		r.items[cp.ID] = &cp
	}
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[string]int
	last  *models.LiveStandings
}

func (n *recordingNotifier) NotifyStandings(tournamentID string, view *models.LiveStandings) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = make(map[string]int)
	}
	n.calls[tournamentID]++
	n.last = view
}

type fakeNewsletterRepo struct {
	repositories.NewsletterRepository
	mu    sync.Mutex
	items map[string]*models.NewsletterSubscription
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{items: make(map[string]*models.NewsletterSubscription)}
}

func (r *fakeNewsletterRepo) Create(ctx context.Context, s *models.NewsletterSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.Email]; ok {
		return repositories.ErrSubscriptionExists
	}
	s.ID = uuid.NewString()
	s.SubscribedAt = time.Now()
	cp := *s
	r.items[s.Email] = &cp
	return nil
}

func (r *fakeNewsletterRepo) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[email]
	if !ok {
		return nil, repositories.ErrSubscriptionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeNewsletterRepo) SetActive(ctx context.Context, s *models.NewsletterSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.items[s.Email] = &cp
	return nil
}

func (r *fakeNewsletterRepo) List(ctx context.Context, isActive *bool) ([]models.NewsletterSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NewsletterSubscription
	for _, s := range r.items {
		if isActive == nil || s.IsActive == *isActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeNewsletterRepo) Stats(ctx context.Context) (models.NewsletterStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var st models.NewsletterStats
	for _, s := range r.items {
		st.Total++
		if s.IsActive {
			st.Active++
		} else {
			st.Inactive++
		}
	}
	return st, nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	mu    sync.Mutex
	items map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[u.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.items, id)
	return nil
}
