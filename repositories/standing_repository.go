package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var (
	ErrStandingNotFound  = errors.New("standing not found")
	ErrStandingExists    = errors.New("standing for this player already exists in the tournament")
	ErrStandingReference = errors.New("standing references a missing tournament or player")
)

type StandingRepository interface {
	Create(ctx context.Context, standing *models.Standing) error
	GetByID(ctx context.Context, id string) (*models.Standing, error)
	Update(ctx context.Context, standing *models.Standing) error
	Delete(ctx context.Context, id string) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, limit int) ([]models.Standing, error)
	ListByPlayer(ctx context.Context, playerID string, from, to *time.Time) ([]models.Standing, error)
	ListSurvivors(ctx context.Context, tournamentID string) ([]models.Standing, error)
	ListSeason(ctx context.Context, from, to *time.Time) ([]models.Standing, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
	InsertBatch(ctx context.Context, exec SQLExecutor, tournamentID string, standings []models.Standing) error
}

const (
	standingColumns = `
	s.id, s.tournament_id, s.player_id, s.rank, s.chips, s.is_survivor, s.prize_amount,
	s.created_at, s.updated_at`
	standingPlayerColumns     = `p.id, p.name, p.country, p.country_code, p.flag_url, p.profile_image_url`
	standingTournamentColumns = `t.id, t.name, t.start_date, t.end_date, t.location, t.status`
)

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanStanding(row rowScanner, withPlayer, withTournament bool) (*models.Standing, error) {
	s := &models.Standing{}
	dest := []interface{}{
		&s.ID, &s.TournamentID, &s.PlayerID, &s.Rank, &s.Chips, &s.IsSurvivor, &s.PrizeAmount,
		&s.CreatedAt, &s.UpdatedAt,
	}
	var p models.Player
	if withPlayer {
		dest = append(dest, &p.ID, &p.Name, &p.Country, &p.CountryCode, &p.FlagURL, &p.ProfileImageURL)
	}
	var t models.TournamentSummary
	if withTournament {
		dest = append(dest, &t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.Location, &t.Status)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if withPlayer {
		s.Player = &p
	}
	if withTournament {
		s.Tournament = &t
	}
	return s, nil
}

func (r *postgresStandingRepository) query(ctx context.Context, exec SQLExecutor, withPlayer, withTournament bool, query string, args ...interface{}) ([]models.Standing, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.Standing, 0)
	for rows.Next() {
		s, err := scanStanding(rows, withPlayer, withTournament)
		if err != nil {
			return nil, err
		}
		standings = append(standings, *s)
	}
	return standings, rows.Err()
}

func mapStandingWriteError(err error) error {
	switch code, _ := pqErrorCode(err); code {
	case pqUniqueViolation:
		return ErrStandingExists
	case pqForeignKeyViolation:
		return ErrStandingReference
	}
	return err
}

func (r *postgresStandingRepository) Create(ctx context.Context, s *models.Standing) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO standings (id, tournament_id, player_id, rank, chips, is_survivor, prize_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.TournamentID, s.PlayerID, s.Rank, s.Chips, s.IsSurvivor, s.PrizeAmount,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapStandingWriteError(err)
	}
	return nil
}

func (r *postgresStandingRepository) GetByID(ctx context.Context, id string) (*models.Standing, error) {
	query := `
		SELECT ` + standingColumns + `, ` + standingPlayerColumns + `, ` + standingTournamentColumns + `
		FROM standings s
		JOIN players p ON p.id = s.player_id
		JOIN tournaments t ON t.id = s.tournament_id
		WHERE s.id = $1`

	s, err := scanStanding(r.db.QueryRowContext(ctx, query, id), true, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresStandingRepository) Update(ctx context.Context, s *models.Standing) error {
	query := `
		UPDATE standings SET
			rank = $1, chips = $2, is_survivor = $3, prize_amount = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, s.Rank, s.Chips, s.IsSurvivor, s.PrizeAmount, s.ID).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStandingNotFound
	}
	return err
}

func (r *postgresStandingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM standings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

// ListByTournament returns the standings ordered by rank, all of them when
// limit <= 0. A missing tournament yields an empty slice.
func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, limit int) ([]models.Standing, error) {
	b := &queryBuilder{}
	b.where("s.tournament_id = " + b.arg(tournamentID))
	query := `
		SELECT ` + standingColumns + `, ` + standingPlayerColumns + `
		FROM standings s
		JOIN players p ON p.id = s.player_id` + b.clause() + `
		ORDER BY s.rank ASC, s.id`
	if limit > 0 {
		query += " LIMIT " + b.arg(limit)
	}
	return r.query(ctx, exec, true, false, query, b.args...)
}

func (r *postgresStandingRepository) ListByPlayer(ctx context.Context, playerID string, from, to *time.Time) ([]models.Standing, error) {
	b := &queryBuilder{}
	b.where("s.player_id = " + b.arg(playerID))
	seasonRange(b, from, to)

	query := `
		SELECT ` + standingColumns + `, ` + standingTournamentColumns + `
		FROM standings s
		JOIN tournaments t ON t.id = s.tournament_id` + b.clause() + `
		ORDER BY t.start_date DESC NULLS LAST, s.id`
	return r.query(ctx, nil, false, true, query, b.args...)
}

// ListSurvivors returns the players still in the tournament ordered by chip count.
func (r *postgresStandingRepository) ListSurvivors(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	query := `
		SELECT ` + standingColumns + `, ` + standingPlayerColumns + `
		FROM standings s
		JOIN players p ON p.id = s.player_id
		WHERE s.tournament_id = $1 AND s.is_survivor = TRUE
		ORDER BY s.chips DESC, s.rank ASC, s.id`
	return r.query(ctx, nil, true, false, query, tournamentID)
}

// ListSeason returns every standing whose tournament starts within [from, to).
// Nil bounds are open.
func (r *postgresStandingRepository) ListSeason(ctx context.Context, from, to *time.Time) ([]models.Standing, error) {
	b := &queryBuilder{}
	seasonRange(b, from, to)

	query := `
		SELECT ` + standingColumns + `, ` + standingTournamentColumns + `
		FROM standings s
		JOIN tournaments t ON t.id = s.tournament_id` + b.clause() + `
		ORDER BY s.player_id, t.start_date ASC NULLS LAST, s.id`
	return r.query(ctx, nil, false, true, query, b.args...)
}

func seasonRange(b *queryBuilder, from, to *time.Time) {
	if from != nil {
		b.where("t.start_date >= " + b.arg(*from))
	}
	if to != nil {
		b.where("t.start_date < " + b.arg(*to))
	}
}

func (r *postgresStandingRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM standings WHERE tournament_id = $1`, tournamentID)
	return err
}

// InsertBatch writes all standings of a tournament in a single INSERT.
func (r *postgresStandingRepository) InsertBatch(ctx context.Context, exec SQLExecutor, tournamentID string, standings []models.Standing) error {
	if len(standings) == 0 {
		return nil
	}

	const cols = 7
	values := make([]string, 0, len(standings))
	args := make([]interface{}, 0, len(standings)*cols)
	for i := range standings {
		s := &standings[i]
		s.ID = uuid.NewString()
		s.TournamentID = tournamentID
		n := i * cols
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7))
		args = append(args, s.ID, s.TournamentID, s.PlayerID, s.Rank, s.Chips, s.IsSurvivor, s.PrizeAmount)
	}

	query := `
		INSERT INTO standings (id, tournament_id, player_id, rank, chips, is_survivor, prize_amount)
		VALUES ` + strings.Join(values, ", ")

	if _, err := r.getExecutor(exec).ExecContext(ctx, query, args...); err != nil {
		return mapStandingWriteError(err)
	}
	return nil
}
