package services

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTournamentLimit = 10
	defaultUpcomingLimit   = 10
	liveStandingsPreview   = 10
)

type TournamentInput struct {
	Name           *string                  `json:"name"`
	Description    *string                  `json:"description"`
	StartDate      *time.Time               `json:"startDate"`
	EndDate        *time.Time               `json:"endDate"`
	Location       *string                  `json:"location"`
	Venue          *string                  `json:"venue"`
	Status         *models.TournamentStatus `json:"status"`
	PrizePool      *float64                 `json:"prizePool"`
	BuyIn          *float64                 `json:"buyIn"`
	TotalEntries   *int                     `json:"totalEntries"`
	BannerImageURL *string                  `json:"bannerImageUrl"`
}

type TournamentQuery struct {
	Status *models.TournamentStatus
	Search string
	Page   int
	Limit  int
}

type LevelInput struct {
	Level           int   `json:"level"`
	SmallBlind      int64 `json:"smallBlind"`
	BigBlind        int64 `json:"bigBlind"`
	Ante            int64 `json:"ante"`
	DurationMinutes int   `json:"durationMinutes"`
	IsBreak         bool  `json:"isBreak"`
}

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	FindAll(ctx context.Context, query TournamentQuery) (models.Page[models.Tournament], error)
	FindByID(ctx context.Context, id string) (*models.Tournament, error)
	Update(ctx context.Context, id string, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
	Upcoming(ctx context.Context, limit int) ([]models.Tournament, error)
	Live(ctx context.Context) ([]models.Tournament, error)
	Stats(ctx context.Context) (models.TournamentStats, error)
	ReplaceStructure(ctx context.Context, id string, levels []LevelInput) ([]models.TournamentLevel, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	standingRepo   repositories.StandingRepository
	videoRepo      repositories.VideoRepository
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	standingRepo repositories.StandingRepository,
	videoRepo repositories.VideoRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		standingRepo:   standingRepo,
		videoRepo:      videoRepo,
		logger:         logger,
	}
}

func validateTournament(in TournamentInput, create bool) error {
	v := newValidator()
	v.minLen(in.Name, create, "name", 3)
	if in.Status != nil {
		v.check(in.Status.Valid(), "status", "must be one of UPCOMING, LIVE, COMPLETED, CANCELLED")
	}
	if in.PrizePool != nil {
		v.check(*in.PrizePool > 0, "prizePool", "must be a positive number")
	}
	if in.BuyIn != nil {
		v.check(*in.BuyIn > 0, "buyIn", "must be a positive number")
	}
	if in.TotalEntries != nil {
		v.check(*in.TotalEntries >= 0, "totalEntries", "must not be negative")
	}
	if in.BannerImageURL != nil {
		v.url(in.BannerImageURL, false, "bannerImageUrl")
	}
	if in.StartDate != nil && in.EndDate != nil {
		v.check(!in.EndDate.Before(*in.StartDate), "endDate", "must not be before startDate")
	}
	return v.err()
}

// apply copies the given fields of in onto t.
func (in TournamentInput) apply(t *models.Tournament) {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.StartDate != nil {
		t.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		t.EndDate = in.EndDate
	}
	if in.Location != nil {
		t.Location = in.Location
	}
	if in.Venue != nil {
		t.Venue = in.Venue
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.PrizePool != nil {
		t.PrizePool = in.PrizePool
	}
	if in.BuyIn != nil {
		t.BuyIn = in.BuyIn
	}
	if in.TotalEntries != nil {
		t.TotalEntries = *in.TotalEntries
	}
	if in.BannerImageURL != nil {
		t.BannerImageURL = in.BannerImageURL
	}
}

func (s *tournamentService) Create(ctx context.Context, in TournamentInput) (*models.Tournament, error) {
	if err := validateTournament(in, true); err != nil {
		return nil, err
	}
	t := &models.Tournament{Status: models.StatusUpcoming}
	in.apply(t)

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, handleRepositoryError(err, "create tournament")
	}
	return t, nil
}

func (s *tournamentService) FindAll(ctx context.Context, q TournamentQuery) (models.Page[models.Tournament], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultTournamentLimit)
	if err != nil {
		return models.Page[models.Tournament]{}, err
	}
	if q.Status != nil && !q.Status.Valid() {
		return models.Page[models.Tournament]{}, &ValidationError{Fields: map[string]string{"status": "unknown tournament status"}}
	}
	filter := repositories.TournamentFilter{Status: q.Status, Search: q.Search, Page: page, Limit: limit}

	var (
		tournaments []models.Tournament
		total       int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournaments, err = s.tournamentRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.tournamentRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.Tournament]{}, handleRepositoryError(err, "list tournaments")
	}
	return models.NewPage(tournaments, page, limit, total), nil
}

// FindByID returns the tournament with its standings, blind structure and videos.
func (s *tournamentService) FindByID(ctx context.Context, id string) (*models.Tournament, error) {
	if !isUUID(id) {
		return nil, ErrTournamentNotFound
	}
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		standings, err := s.standingRepo.ListByTournament(gctx, nil, id, 0)
		t.Standings = standings
		return err
	})
	g.Go(func() error {
		levels, err := s.tournamentRepo.ListLevels(gctx, id)
		t.Structure = levels
		return err
	})
	g.Go(func() error {
		videos, err := s.videoRepo.List(gctx, repositories.VideoFilter{TournamentID: &id})
		t.VideoHighlights = videos
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load tournament details")
	}
	return t, nil
}

func (s *tournamentService) Update(ctx context.Context, id string, in TournamentInput) (*models.Tournament, error) {
	if !isUUID(id) {
		return nil, ErrTournamentNotFound
	}
	if err := validateTournament(in, false); err != nil {
		return nil, err
	}
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}
	in.apply(t)
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return nil, &ValidationError{Fields: map[string]string{"endDate": "must not be before startDate"}}
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, handleRepositoryError(err, "update tournament")
	}
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrTournamentNotFound
	}
	if _, err := s.tournamentRepo.GetByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get tournament")
	}
	return handleRepositoryError(s.tournamentRepo.Delete(ctx, id), "delete tournament")
}

func (s *tournamentService) Upcoming(ctx context.Context, limit int) ([]models.Tournament, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	tournaments, err := s.tournamentRepo.ListUpcoming(ctx, time.Now(), limit)
	if err != nil {
		return nil, handleRepositoryError(err, "list upcoming tournaments")
	}
	return tournaments, nil
}

// Live returns the LIVE tournaments, each with its top standings.
func (s *tournamentService) Live(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListByStatus(ctx, models.StatusLive)
	if err != nil {
		return nil, handleRepositoryError(err, "list live tournaments")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range tournaments {
		t := &tournaments[i]
		g.Go(func() error {
			standings, err := s.standingRepo.ListByTournament(gctx, nil, t.ID, liveStandingsPreview)
			t.Standings = standings
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load live standings")
	}
	return tournaments, nil
}

func (s *tournamentService) Stats(ctx context.Context) (models.TournamentStats, error) {
	counts, err := s.tournamentRepo.CountByStatus(ctx)
	if err != nil {
		return models.TournamentStats{}, handleRepositoryError(err, "count tournaments")
	}
	stats := models.TournamentStats{
		Upcoming:  counts[models.StatusUpcoming],
		Live:      counts[models.StatusLive],
		Completed: counts[models.StatusCompleted],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// ReplaceStructure swaps the whole blind schedule of a tournament atomically.
func (s *tournamentService) ReplaceStructure(ctx context.Context, id string, in []LevelInput) ([]models.TournamentLevel, error) {
	if !isUUID(id) {
		return nil, ErrTournamentNotFound
	}
	v := newValidator()
	seen := make(map[int]bool, len(in))
	levels := make([]models.TournamentLevel, len(in))
	for i, l := range in {
		field := func(name string) string { return "levels[" + itoa(i) + "]." + name }
		v.check(l.Level >= 1, field("level"), "must be a positive number")
		v.check(!seen[l.Level], field("level"), "is listed more than once")
		v.check(l.DurationMinutes > 0, field("durationMinutes"), "must be a positive number")
		v.check(l.SmallBlind >= 0, field("smallBlind"), "must not be negative")
		v.check(l.BigBlind >= l.SmallBlind, field("bigBlind"), "must not be less than smallBlind")
		v.check(l.Ante >= 0, field("ante"), "must not be negative")
		seen[l.Level] = true
		levels[i] = models.TournamentLevel{
			Level:           l.Level,
			SmallBlind:      l.SmallBlind,
			BigBlind:        l.BigBlind,
			Ante:            l.Ante,
			DurationMinutes: l.DurationMinutes,
			IsBreak:         l.IsBreak,
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.tournamentRepo.GetByID(ctx, id); err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}

	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		return s.tournamentRepo.ReplaceLevels(ctx, tx, id, levels)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "replace tournament structure")
	}

	s.logger.Info("tournament structure replaced", slog.String("tournament_id", id), slog.Int("levels", len(levels)))
	saved, err := s.tournamentRepo.ListLevels(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "list tournament structure")
	}
	return saved, nil
}
