package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var (
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTournamentLevelTaken = errors.New("tournament structure level is duplicated")
)

type TournamentFilter struct {
	Status *models.TournamentStatus
	Search string
	Page   int
	Limit  int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter TournamentFilter) ([]models.Tournament, error)
	Count(ctx context.Context, filter TournamentFilter) (int, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Tournament, error)
	ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error)
	CountByStatus(ctx context.Context) (map[models.TournamentStatus]int, error)
	ListLevels(ctx context.Context, tournamentID string) ([]models.TournamentLevel, error)
	ReplaceLevels(ctx context.Context, exec SQLExecutor, tournamentID string, levels []models.TournamentLevel) error
}

const tournamentColumns = `
	t.id, t.name, t.description, t.start_date, t.end_date, t.location, t.venue, t.status,
	t.prize_pool, t.buy_in, t.total_entries, t.banner_image_url, t.created_at, t.updated_at`

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanTournament(row rowScanner, extra ...interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	dest := []interface{}{
		&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate, &t.Location, &t.Venue, &t.Status,
		&t.PrizePool, &t.BuyIn, &t.TotalEntries, &t.BannerImageURL, &t.CreatedAt, &t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
		INSERT INTO tournaments (
			id, name, description, start_date, end_date, location, venue, status,
			prize_pool, buy_in, total_entries, banner_image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Description, t.StartDate, t.EndDate, t.Location, t.Venue, t.Status,
		t.PrizePool, t.BuyIn, t.TotalEntries, t.BannerImageURL,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments t WHERE t.id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) filter(f TournamentFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.Status != nil {
		b.where("t.status = " + b.arg(*f.Status))
	}
	b.search(f.Search, "t.name", "t.description", "t.location", "t.venue")
	return b
}

func (r *postgresTournamentRepository) List(ctx context.Context, f TournamentFilter) ([]models.Tournament, error) {
	b := r.filter(f)
	query := `
		SELECT ` + tournamentColumns + `,
			(SELECT COUNT(*) FROM standings s WHERE s.tournament_id = t.id) AS standings_count
		FROM tournaments t` + b.clause() + `
		ORDER BY t.start_date DESC NULLS LAST, t.created_at DESC, t.id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var count int
		t, err := scanTournament(rows, &count)
		if err != nil {
			return nil, err
		}
		t.StandingsCount = &count
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Count(ctx context.Context, f TournamentFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM tournaments t`+b.clause(), b.args...)
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1, description = $2, start_date = $3, end_date = $4, location = $5, venue = $6,
			status = $7, prize_pool = $8, buy_in = $9, total_entries = $10, banner_image_url = $11,
			updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.StartDate, t.EndDate, t.Location, t.Venue,
		t.Status, t.PrizePool, t.BuyIn, t.TotalEntries, t.BannerImageURL,
		t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentNotFound
	}
	return err
}

// Delete removes the tournament; standings and structure go with it through
// ON DELETE CASCADE.
func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments t
		WHERE t.status = $1 AND t.start_date >= $2
		ORDER BY t.start_date ASC
		LIMIT $3`
	return r.listWhere(ctx, query, models.StatusUpcoming, from, limit)
}

func (r *postgresTournamentRepository) ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments t
		WHERE t.status = $1
		ORDER BY t.start_date DESC NULLS LAST`
	return r.listWhere(ctx, query, status)
}

func (r *postgresTournamentRepository) CountByStatus(ctx context.Context) (map[models.TournamentStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tournaments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.TournamentStatus]int)
	for rows.Next() {
		var status models.TournamentStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *postgresTournamentRepository) ListLevels(ctx context.Context, tournamentID string) ([]models.TournamentLevel, error) {
	query := `
		SELECT id, tournament_id, level, small_blind, big_blind, ante, duration_minutes, is_break
		FROM tournament_levels
		WHERE tournament_id = $1
		ORDER BY level ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]models.TournamentLevel, 0)
	for rows.Next() {
		var l models.TournamentLevel
		if err := rows.Scan(&l.ID, &l.TournamentID, &l.Level, &l.SmallBlind, &l.BigBlind, &l.Ante, &l.DurationMinutes, &l.IsBreak); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// ReplaceLevels deletes the current blind structure and inserts the given one.
// Callers run it inside a transaction.
func (r *postgresTournamentRepository) ReplaceLevels(ctx context.Context, exec SQLExecutor, tournamentID string, levels []models.TournamentLevel) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM tournament_levels WHERE tournament_id = $1`, tournamentID); err != nil {
		return err
	}

	query := `
		INSERT INTO tournament_levels (id, tournament_id, level, small_blind, big_blind, ante, duration_minutes, is_break)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range levels {
		l := &levels[i]
		l.ID = uuid.NewString()
		l.TournamentID = tournamentID
		_, err := executor.ExecContext(ctx, query, l.ID, l.TournamentID, l.Level, l.SmallBlind, l.BigBlind, l.Ante, l.DurationMinutes, l.IsBreak)
		if err != nil {
			if code, _ := pqErrorCode(err); code == pqUniqueViolation {
				return ErrTournamentLevelTaken
			}
			if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
				return ErrTournamentNotFound
			}
			return err
		}
	}
	return nil
}
