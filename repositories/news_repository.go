package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var (
	ErrNewsNotFound  = errors.New("news article not found")
	ErrNewsSlugTaken = errors.New("news slug already in use")
)

type NewsFilter struct {
	Category    *models.NewsCategory
	IsPublished *bool
	Search      string
	Page        int
	Limit       int
}

type NewsRepository interface {
	Create(ctx context.Context, article *models.NewsArticle) error
	GetByID(ctx context.Context, id string) (*models.NewsArticle, error)
	GetBySlug(ctx context.Context, slug string) (*models.NewsArticle, error)
	List(ctx context.Context, filter NewsFilter) ([]models.NewsArticle, error)
	Count(ctx context.Context, filter NewsFilter) (int, error)
	Update(ctx context.Context, article *models.NewsArticle) error
	Delete(ctx context.Context, id string) error
}

const newsColumns = `
	n.id, n.title, n.slug, n.summary, n.content, n.image_url, n.category, n.author,
	n.is_published, n.published_at, n.created_at, n.updated_at`

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

func scanNews(row rowScanner) (*models.NewsArticle, error) {
	n := &models.NewsArticle{}
	err := row.Scan(
		&n.ID, &n.Title, &n.Slug, &n.Summary, &n.Content, &n.ImageURL, &n.Category, &n.Author,
		&n.IsPublished, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func mapNewsWriteError(err error) error {
	if code, _ := pqErrorCode(err); code == pqUniqueViolation {
		return ErrNewsSlugTaken
	}
	return err
}

func (r *postgresNewsRepository) Create(ctx context.Context, n *models.NewsArticle) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	query := `
		INSERT INTO news_articles (id, title, slug, summary, content, image_url, category, author, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		n.ID, n.Title, n.Slug, n.Summary, n.Content, n.ImageURL, n.Category, n.Author, n.IsPublished, n.PublishedAt,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return mapNewsWriteError(err)
	}
	return nil
}

func (r *postgresNewsRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.NewsArticle, error) {
	query := `SELECT ` + newsColumns + ` FROM news_articles n WHERE ` + where + ` = $1`

	n, err := scanNews(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id string) (*models.NewsArticle, error) {
	return r.getOne(ctx, "n.id", id)
}

func (r *postgresNewsRepository) GetBySlug(ctx context.Context, slug string) (*models.NewsArticle, error) {
	return r.getOne(ctx, "n.slug", slug)
}

func (r *postgresNewsRepository) filter(f NewsFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.Category != nil {
		b.where("n.category = " + b.arg(*f.Category))
	}
	if f.IsPublished != nil {
		b.where("n.is_published = " + b.arg(*f.IsPublished))
	}
	b.search(f.Search, "n.title", "n.summary", "n.content")
	return b
}

func (r *postgresNewsRepository) List(ctx context.Context, f NewsFilter) ([]models.NewsArticle, error) {
	b := r.filter(f)
	query := `
		SELECT ` + newsColumns + `
		FROM news_articles n` + b.clause() + `
		ORDER BY n.published_at DESC NULLS LAST, n.created_at DESC, n.id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]models.NewsArticle, 0)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *n)
	}
	return articles, rows.Err()
}

func (r *postgresNewsRepository) Count(ctx context.Context, f NewsFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM news_articles n`+b.clause(), b.args...)
}

func (r *postgresNewsRepository) Update(ctx context.Context, n *models.NewsArticle) error {
	query := `
		UPDATE news_articles SET
			title = $1, slug = $2, summary = $3, content = $4, image_url = $5, category = $6,
			author = $7, is_published = $8, published_at = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		n.Title, n.Slug, n.Summary, n.Content, n.ImageURL, n.Category, n.Author, n.IsPublished, n.PublishedAt, n.ID,
	).Scan(&n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNewsNotFound
	}
	if err != nil {
		return mapNewsWriteError(err)
	}
	return nil
}

func (r *postgresNewsRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}
