package services

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
)

const (
	defaultTournamentStandingsLimit = 100
	maxBulkStandings                = 5000
)

// StandingsNotifier receives the fresh live view after any standings write.
type StandingsNotifier interface {
	NotifyStandings(tournamentID string, view *models.LiveStandings)
}

type StandingInput struct {
	TournamentID string   `json:"tournamentId"`
	PlayerID     string   `json:"playerId"`
	Rank         *int     `json:"rank"`
	Chips        *int64   `json:"chips"`
	IsSurvivor   *bool    `json:"isSurvivor"`
	PrizeAmount  *float64 `json:"prizeAmount"`
}

type StandingUpdateInput struct {
	Rank        *int     `json:"rank"`
	Chips       *int64   `json:"chips"`
	IsSurvivor  *bool    `json:"isSurvivor"`
	PrizeAmount *float64 `json:"prizeAmount"`
}

type BulkStandingsInput struct {
	TournamentID string              `json:"tournamentId"`
	Standings    []BulkStandingEntry `json:"standings"`
}

type BulkStandingEntry struct {
	PlayerID    string   `json:"playerId"`
	Rank        *int     `json:"rank"`
	Chips       *int64   `json:"chips"`
	IsSurvivor  bool     `json:"isSurvivor"`
	PrizeAmount *float64 `json:"prizeAmount"`
}

type StandingService interface {
	Create(ctx context.Context, input StandingInput) (*models.Standing, error)
	FindByID(ctx context.Context, id string) (*models.Standing, error)
	Update(ctx context.Context, id string, input StandingUpdateInput) (*models.Standing, error)
	Delete(ctx context.Context, id string) error
	ByTournament(ctx context.Context, tournamentID string, limit int) ([]models.Standing, error)
	ByPlayer(ctx context.Context, playerID string) ([]models.Standing, error)
	Live(ctx context.Context, tournamentID string) (*models.LiveStandings, error)
	BulkReplace(ctx context.Context, input BulkStandingsInput) ([]models.Standing, error)
}

type standingService struct {
	db             *sql.DB
	standingRepo   repositories.StandingRepository
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	notifier       StandingsNotifier
	logger         *slog.Logger
}

// NewStandingService wires the service; notifier may be nil.
func NewStandingService(
	db *sql.DB,
	standingRepo repositories.StandingRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	notifier StandingsNotifier,
	logger *slog.Logger,
) StandingService {
	return &standingService{
		db:             db,
		standingRepo:   standingRepo,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func checkStandingFields(v *validator, prefix string, rank *int, chips *int64, prize *float64, create bool) {
	if rank == nil {
		v.check(!create, prefix+"rank", "is required")
	} else {
		v.check(*rank > 0, prefix+"rank", "rank must be a positive number")
	}
	if chips == nil {
		v.check(!create, prefix+"chips", "is required")
	} else {
		v.check(*chips >= 0, prefix+"chips", "chips cannot be negative")
	}
	if prize != nil {
		v.check(*prize >= 0, prefix+"prizeAmount", "must not be negative")
	}
}

func (s *standingService) Create(ctx context.Context, in StandingInput) (*models.Standing, error) {
	v := newValidator()
	v.check(isUUID(in.TournamentID), "tournamentId", "invalid tournament ID")
	v.check(isUUID(in.PlayerID), "playerId", "invalid player ID")
	checkStandingFields(v, "", in.Rank, in.Chips, in.PrizeAmount, true)
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.tournamentRepo.GetByID(ctx, in.TournamentID); err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}
	if _, err := s.playerRepo.GetByID(ctx, in.PlayerID); err != nil {
		return nil, handleRepositoryError(err, "get player")
	}

	st := &models.Standing{
		TournamentID: in.TournamentID,
		PlayerID:     in.PlayerID,
		Rank:         *in.Rank,
		Chips:        *in.Chips,
		PrizeAmount:  in.PrizeAmount,
	}
	if in.IsSurvivor != nil {
		st.IsSurvivor = *in.IsSurvivor
	}
	if err := s.standingRepo.Create(ctx, st); err != nil {
		return nil, handleRepositoryError(err, "create standing")
	}

	s.publish(ctx, st.TournamentID)
	return s.FindByID(ctx, st.ID)
}

func (s *standingService) FindByID(ctx context.Context, id string) (*models.Standing, error) {
	if !isUUID(id) {
		return nil, ErrStandingNotFound
	}
	st, err := s.standingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get standing")
	}
	return st, nil
}

func (s *standingService) Update(ctx context.Context, id string, in StandingUpdateInput) (*models.Standing, error) {
	if !isUUID(id) {
		return nil, ErrStandingNotFound
	}
	v := newValidator()
	checkStandingFields(v, "", in.Rank, in.Chips, in.PrizeAmount, false)
	if err := v.err(); err != nil {
		return nil, err
	}

	st, err := s.standingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get standing")
	}
	if in.Rank != nil {
		st.Rank = *in.Rank
	}
	if in.Chips != nil {
		st.Chips = *in.Chips
	}
	if in.IsSurvivor != nil {
		st.IsSurvivor = *in.IsSurvivor
	}
	if in.PrizeAmount != nil {
		st.PrizeAmount = in.PrizeAmount
	}
	if err := s.standingRepo.Update(ctx, st); err != nil {
		return nil, handleRepositoryError(err, "update standing")
	}

	s.publish(ctx, st.TournamentID)
	return st, nil
}

func (s *standingService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrStandingNotFound
	}
	st, err := s.standingRepo.GetByID(ctx, id)
	if err != nil {
		return handleRepositoryError(err, "get standing")
	}
	if err := s.standingRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err, "delete standing")
	}
	s.publish(ctx, st.TournamentID)
	return nil
}

// ByTournament does not check that the tournament exists: an unknown or
// deleted tournament simply has no standings.
func (s *standingService) ByTournament(ctx context.Context, tournamentID string, limit int) ([]models.Standing, error) {
	if !isUUID(tournamentID) {
		return []models.Standing{}, nil
	}
	if limit <= 0 {
		limit = defaultTournamentStandingsLimit
	}
	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID, limit)
	if err != nil {
		return nil, handleRepositoryError(err, "list tournament standings")
	}
	return standings, nil
}

func (s *standingService) ByPlayer(ctx context.Context, playerID string) ([]models.Standing, error) {
	if !isUUID(playerID) {
		return []models.Standing{}, nil
	}
	standings, err := s.standingRepo.ListByPlayer(ctx, playerID, nil, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "list player standings")
	}
	return standings, nil
}

// Live returns the survivors of a tournament ordered by chips, ranked 1..n.
func (s *standingService) Live(ctx context.Context, tournamentID string) (*models.LiveStandings, error) {
	if !isUUID(tournamentID) {
		return nil, ErrTournamentNotFound
	}
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}
	survivors, err := s.standingRepo.ListSurvivors(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "list survivors")
	}
	for i := range survivors {
		survivors[i].LiveRank = i + 1
	}
	return &models.LiveStandings{
		Tournament: models.LiveTournament{
			ID:           t.ID,
			Name:         t.Name,
			Status:       t.Status,
			TotalEntries: t.TotalEntries,
		},
		PlayersRemaining: len(survivors),
		Standings:        survivors,
	}, nil
}

// BulkReplace discards every standing of the tournament and writes the given
// set in one transaction. Nothing changes unless every player exists.
func (s *standingService) BulkReplace(ctx context.Context, in BulkStandingsInput) ([]models.Standing, error) {
	v := newValidator()
	v.check(isUUID(in.TournamentID), "tournamentId", "invalid tournament ID")
	v.check(len(in.Standings) <= maxBulkStandings, "standings", "too many standings in one request")

	seen := make(map[string]bool, len(in.Standings))
	ids := make([]string, 0, len(in.Standings))
	standings := make([]models.Standing, 0, len(in.Standings))
	for i, e := range in.Standings {
		prefix := "standings[" + itoa(i) + "]."
		v.check(isUUID(e.PlayerID), prefix+"playerId", "invalid player ID")
		v.check(!seen[e.PlayerID], prefix+"playerId", "player is listed more than once")
		checkStandingFields(v, prefix, e.Rank, e.Chips, e.PrizeAmount, true)
		if !seen[e.PlayerID] {
			seen[e.PlayerID] = true
			ids = append(ids, e.PlayerID)
		}
		if e.Rank != nil && e.Chips != nil {
			standings = append(standings, models.Standing{
				PlayerID:    e.PlayerID,
				Rank:        *e.Rank,
				Chips:       *e.Chips,
				IsSurvivor:  e.IsSurvivor,
				PrizeAmount: e.PrizeAmount,
			})
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.tournamentRepo.GetByID(ctx, in.TournamentID); err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}

	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		found, err := s.playerRepo.CountExisting(ctx, tx, ids)
		if err != nil {
			return err
		}
		if found != len(ids) {
			return ErrPlayersNotFound
		}
		if err := s.standingRepo.DeleteByTournament(ctx, tx, in.TournamentID); err != nil {
			return err
		}
		return s.standingRepo.InsertBatch(ctx, tx, in.TournamentID, standings)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "replace standings")
	}

	s.logger.Info("standings replaced",
		slog.String("tournament_id", in.TournamentID),
		slog.Int("count", len(standings)),
	)
	s.publish(ctx, in.TournamentID)

	saved, err := s.standingRepo.ListByTournament(ctx, nil, in.TournamentID, 0)
	if err != nil {
		return nil, handleRepositoryError(err, "list tournament standings")
	}
	return saved, nil
}

// publish pushes the live view to subscribers. Failures are logged only; the
// write has already succeeded.
func (s *standingService) publish(ctx context.Context, tournamentID string) {
	if s.notifier == nil {
		return
	}
	view, err := s.Live(ctx, tournamentID)
	if err != nil {
		s.logger.Warn("failed to build live standings for broadcast",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.notifier.NotifyStandings(tournamentID, view)
}
