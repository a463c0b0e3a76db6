package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var (
	ErrVideoNotFound           = errors.New("video highlight not found")
	ErrVideoTournamentNotFound = errors.New("video references a missing tournament")
)

type VideoFilter struct {
	TournamentID *string
	Search       string
	Page         int
	Limit        int
}

type VideoRepository interface {
	Create(ctx context.Context, video *models.VideoHighlight) error
	GetByID(ctx context.Context, id string) (*models.VideoHighlight, error)
	List(ctx context.Context, filter VideoFilter) ([]models.VideoHighlight, error)
	Count(ctx context.Context, filter VideoFilter) (int, error)
	Update(ctx context.Context, video *models.VideoHighlight) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int, error)
}

const videoColumns = `
	v.id, v.title, v.description, v.video_url, v.thumbnail_url, v.duration_seconds,
	v.tournament_id, v.view_count, v.published_at, v.created_at, v.updated_at,
	t.id, t.name, t.start_date, t.status`

const videoFrom = `
	FROM video_highlights v
	LEFT JOIN tournaments t ON t.id = v.tournament_id`

type postgresVideoRepository struct {
	db *sql.DB
}

func NewPostgresVideoRepository(db *sql.DB) VideoRepository {
	return &postgresVideoRepository{db: db}
}

func scanVideo(row rowScanner) (*models.VideoHighlight, error) {
	v := &models.VideoHighlight{}
	var (
		tID, tName, tStatus sql.NullString
		tStart              sql.NullTime
	)
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL, &v.DurationSeconds,
		&v.TournamentID, &v.ViewCount, &v.PublishedAt, &v.CreatedAt, &v.UpdatedAt,
		&tID, &tName, &tStart, &tStatus,
	)
	if err != nil {
		return nil, err
	}
	if tID.Valid {
		v.Tournament = &models.TournamentSummary{
			ID:     tID.String,
			Name:   tName.String,
			Status: models.TournamentStatus(tStatus.String),
		}
		if tStart.Valid {
			start := tStart.Time
			v.Tournament.StartDate = &start
		}
	}
	return v, nil
}

func mapVideoWriteError(err error) error {
	if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
		return ErrVideoTournamentNotFound
	}
	return err
}

func (r *postgresVideoRepository) Create(ctx context.Context, v *models.VideoHighlight) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `
		INSERT INTO video_highlights (id, title, description, video_url, thumbnail_url, duration_seconds, tournament_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING view_count, published_at, created_at, updated_at`

	var publishedAt interface{}
	if !v.PublishedAt.IsZero() {
		publishedAt = v.PublishedAt
	}
	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.DurationSeconds, v.TournamentID, publishedAt,
	).Scan(&v.ViewCount, &v.PublishedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return mapVideoWriteError(err)
	}
	return nil
}

func (r *postgresVideoRepository) GetByID(ctx context.Context, id string) (*models.VideoHighlight, error) {
	query := `SELECT ` + videoColumns + videoFrom + ` WHERE v.id = $1`

	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresVideoRepository) filter(f VideoFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.TournamentID != nil {
		b.where("v.tournament_id = " + b.arg(*f.TournamentID))
	}
	b.search(f.Search, "v.title", "v.description")
	return b
}

func (r *postgresVideoRepository) List(ctx context.Context, f VideoFilter) ([]models.VideoHighlight, error) {
	b := r.filter(f)
	query := `SELECT ` + videoColumns + videoFrom + b.clause() + `
		ORDER BY v.published_at DESC, v.id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]models.VideoHighlight, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

func (r *postgresVideoRepository) Count(ctx context.Context, f VideoFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM video_highlights v`+b.clause(), b.args...)
}

func (r *postgresVideoRepository) Update(ctx context.Context, v *models.VideoHighlight) error {
	query := `
		UPDATE video_highlights SET
			title = $1, description = $2, video_url = $3, thumbnail_url = $4, duration_seconds = $5,
			tournament_id = $6, published_at = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.DurationSeconds, v.TournamentID, v.PublishedAt, v.ID,
	).Scan(&v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVideoNotFound
	}
	if err != nil {
		return mapVideoWriteError(err)
	}
	return nil
}

func (r *postgresVideoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM video_highlights WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVideoNotFound)
}

// IncrementViews bumps view_count in place and returns the new value.
func (r *postgresVideoRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.db.QueryRowContext(ctx,
		`UPDATE video_highlights SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id,
	).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVideoNotFound
	}
	return views, err
}
