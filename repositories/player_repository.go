package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerFilter struct {
	Search      string
	CountryCode string
	Page        int
	Limit       int
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context, filter PlayerFilter) ([]models.Player, error)
	Count(ctx context.Context, filter PlayerFilter) (int, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.Player, error)
	CountExisting(ctx context.Context, exec SQLExecutor, ids []string) (int, error)
	ListCountries(ctx context.Context) ([]models.CountryCount, error)
}

const playerColumns = `
	p.id, p.name, p.country, p.country_code, p.flag_url, p.profile_image_url, p.bio,
	p.created_at, p.updated_at`

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanPlayer(row rowScanner, extra ...interface{}) (*models.Player, error) {
	p := &models.Player{}
	dest := []interface{}{
		&p.ID, &p.Name, &p.Country, &p.CountryCode, &p.FlagURL, &p.ProfileImageURL, &p.Bio,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO players (id, name, country, country_code, flag_url, profile_image_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Country, p.CountryCode, p.FlagURL, p.ProfileImageURL, p.Bio,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p WHERE p.id = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) filter(f PlayerFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.CountryCode != "" {
		b.where("p.country_code = " + b.arg(f.CountryCode))
	}
	b.search(f.Search, "p.name", "p.bio", "p.country")
	return b
}

func (r *postgresPlayerRepository) List(ctx context.Context, f PlayerFilter) ([]models.Player, error) {
	b := r.filter(f)
	query := `
		SELECT ` + playerColumns + `,
			(SELECT COUNT(*) FROM standings s WHERE s.player_id = p.id) AS standings_count
		FROM players p` + b.clause() + `
		ORDER BY p.name ASC, p.id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var count int
		p, err := scanPlayer(rows, &count)
		if err != nil {
			return nil, err
		}
		p.StandingsCount = &count
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Count(ctx context.Context, f PlayerFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM players p`+b.clause(), b.args...)
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players SET
			name = $1, country = $2, country_code = $3, flag_url = $4, profile_image_url = $5, bio = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Country, p.CountryCode, p.FlagURL, p.ProfileImageURL, p.Bio, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlayerNotFound
	}
	return err
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// ListAll returns every player ordered by name then id. It is the snapshot the
// leaderboard is computed from, so the order here decides ties.
func (r *postgresPlayerRepository) ListAll(ctx context.Context) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p ORDER BY p.name ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// CountExisting reports how many of the given ids exist. Duplicates in ids are
// counted once.
func (r *postgresPlayerRepository) CountExisting(ctx context.Context, exec SQLExecutor, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return countQuery(ctx, r.getExecutor(exec), `SELECT COUNT(*) FROM players WHERE id = ANY($1)`, pq.Array(ids))
}

func (r *postgresPlayerRepository) ListCountries(ctx context.Context) ([]models.CountryCount, error) {
	query := `
		SELECT country, country_code, COUNT(*) AS player_count
		FROM players
		WHERE country_code IS NOT NULL
		GROUP BY country, country_code
		ORDER BY player_count DESC, country_code ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := make([]models.CountryCount, 0)
	for rows.Next() {
		var c models.CountryCount
		if err := rows.Scan(&c.Country, &c.CountryCode, &c.PlayerCount); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}
