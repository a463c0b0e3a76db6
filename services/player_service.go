package services

import (
	"context"
	"strings"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"github.com/Dosada05/poker-dream-api/scoring"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPlayerLimit      = 10
	defaultLeaderboardLimit = 50
)

type PlayerInput struct {
	Name            *string `json:"name"`
	Country         *string `json:"country"`
	CountryCode     *string `json:"countryCode"`
	FlagURL         *string `json:"flagUrl"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Bio             *string `json:"bio"`
}

type PlayerQuery struct {
	Search  string
	Country string
	Page    int
	Limit   int
}

type LeaderboardQuery struct {
	Page  int
	Limit int
	Year  *int
}

type PlayerService interface {
	Create(ctx context.Context, input PlayerInput) (*models.Player, error)
	FindAll(ctx context.Context, query PlayerQuery) (models.Page[models.Player], error)
	FindByID(ctx context.Context, id string) (*models.Player, error)
	Update(ctx context.Context, id string, input PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, id string, year *int) (*models.PlayerStatsReport, error)
	Countries(ctx context.Context) ([]models.CountryCount, error)
	Leaderboard(ctx context.Context, query LeaderboardQuery) (models.Page[models.LeaderboardEntry], error)
}

type playerService struct {
	playerRepo   repositories.PlayerRepository
	standingRepo repositories.StandingRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, standingRepo repositories.StandingRepository) PlayerService {
	return &playerService{playerRepo: playerRepo, standingRepo: standingRepo}
}

func validatePlayer(in PlayerInput, create bool) error {
	v := newValidator()
	v.minLen(in.Name, create, "name", 2)
	if in.CountryCode != nil {
		code := *in.CountryCode
		v.check(len(code) == 2 && isLetters(code), "countryCode", "must be 2 letters")
	}
	if in.FlagURL != nil {
		v.url(in.FlagURL, false, "flagUrl")
	}
	if in.ProfileImageURL != nil {
		v.url(in.ProfileImageURL, false, "profileImageUrl")
	}
	return v.err()
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func (in PlayerInput) apply(p *models.Player) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Country != nil {
		p.Country = in.Country
	}
	if in.CountryCode != nil {
		code := strings.ToUpper(*in.CountryCode)
		p.CountryCode = &code
	}
	if in.FlagURL != nil {
		p.FlagURL = in.FlagURL
	}
	if in.ProfileImageURL != nil {
		p.ProfileImageURL = in.ProfileImageURL
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
}

func (s *playerService) Create(ctx context.Context, in PlayerInput) (*models.Player, error) {
	if err := validatePlayer(in, true); err != nil {
		return nil, err
	}
	p := &models.Player{}
	in.apply(p)
	if err := s.playerRepo.Create(ctx, p); err != nil {
		return nil, handleRepositoryError(err, "create player")
	}
	return p, nil
}

func (s *playerService) FindAll(ctx context.Context, q PlayerQuery) (models.Page[models.Player], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultPlayerLimit)
	if err != nil {
		return models.Page[models.Player]{}, err
	}
	filter := repositories.PlayerFilter{
		Search:      q.Search,
		CountryCode: strings.ToUpper(q.Country),
		Page:        page,
		Limit:       limit,
	}

	var (
		players []models.Player
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.playerRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.Player]{}, handleRepositoryError(err, "list players")
	}
	return models.NewPage(players, page, limit, total), nil
}

// FindByID returns the player with every standing and the aggregated stats.
func (s *playerService) FindByID(ctx context.Context, id string) (*models.Player, error) {
	report, err := s.Stats(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	p := report.Player
	p.Standings = report.Standings
	p.Stats = &report.Stats
	return p, nil
}

func (s *playerService) Update(ctx context.Context, id string, in PlayerInput) (*models.Player, error) {
	if !isUUID(id) {
		return nil, ErrPlayerNotFound
	}
	if err := validatePlayer(in, false); err != nil {
		return nil, err
	}
	p, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get player")
	}
	in.apply(p)
	if err := s.playerRepo.Update(ctx, p); err != nil {
		return nil, handleRepositoryError(err, "update player")
	}
	return p, nil
}

func (s *playerService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrPlayerNotFound
	}
	if _, err := s.playerRepo.GetByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get player")
	}
	return handleRepositoryError(s.playerRepo.Delete(ctx, id), "delete player")
}

// seasonBounds returns [Jan 1 of year, Jan 1 of year+1) in UTC, or open bounds.
func seasonBounds(year *int) (from, to *time.Time, err error) {
	if year == nil {
		return nil, nil, nil
	}
	if *year < 1970 || *year > 9999 {
		return nil, nil, &ValidationError{Fields: map[string]string{"year": "must be a calendar year"}}
	}
	start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return &start, &end, nil
}

func (s *playerService) Stats(ctx context.Context, id string, year *int) (*models.PlayerStatsReport, error) {
	if !isUUID(id) {
		return nil, ErrPlayerNotFound
	}
	from, to, err := seasonBounds(year)
	if err != nil {
		return nil, err
	}
	p, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get player")
	}
	standings, err := s.standingRepo.ListByPlayer(ctx, id, from, to)
	if err != nil {
		return nil, handleRepositoryError(err, "list player standings")
	}
	stats, _ := scoring.Summarize(standings)
	return &models.PlayerStatsReport{Player: p, Stats: stats, Standings: standings}, nil
}

func (s *playerService) Countries(ctx context.Context) ([]models.CountryCount, error) {
	countries, err := s.playerRepo.ListCountries(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list countries")
	}
	return countries, nil
}

// Leaderboard recomputes the DPOY ranking from a fresh snapshot on every call.
func (s *playerService) Leaderboard(ctx context.Context, q LeaderboardQuery) (models.Page[models.LeaderboardEntry], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultLeaderboardLimit)
	if err != nil {
		return models.Page[models.LeaderboardEntry]{}, err
	}
	from, to, err := seasonBounds(q.Year)
	if err != nil {
		return models.Page[models.LeaderboardEntry]{}, err
	}

	// Два независимых чтения, без общей транзакции. Рейтинг строится от списка
	// игроков: результаты игрока, которого нет в этом списке, не учитываются,
	// а новый игрок без прочитанных результатов получает 0 очков.
	var (
		players   []models.Player
		standings []models.Standing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		standings, err = s.standingRepo.ListSeason(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.LeaderboardEntry]{}, handleRepositoryError(err, "load leaderboard snapshot")
	}

	byPlayer := make(map[string][]models.Standing, len(players))
	for _, st := range standings {
		byPlayer[st.PlayerID] = append(byPlayer[st.PlayerID], st)
	}
	for i := range players {
		players[i].Standings = byPlayer[players[i].ID]
	}

	return scoring.Paginate(scoring.Build(players), page, limit), nil
}
