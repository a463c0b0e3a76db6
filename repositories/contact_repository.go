package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var ErrContactNotFound = errors.New("contact submission not found")

type ContactFilter struct {
	Status *models.ContactStatus
	Type   *models.ContactType
	Search string
	Page   int
	Limit  int
}

type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	GetByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	List(ctx context.Context, filter ContactFilter) ([]models.ContactSubmission, error)
	Count(ctx context.Context, filter ContactFilter) (int, error)
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.ContactStatus]int, error)
	CountByType(ctx context.Context) (map[models.ContactType]int, error)
}

const contactColumns = `id, name, email, company, subject, message, type, status, created_at, updated_at`

type postgresContactRepository struct {
	db *sql.DB
}

func NewPostgresContactRepository(db *sql.DB) ContactRepository {
	return &postgresContactRepository{db: db}
}

func scanContact(row rowScanner) (*models.ContactSubmission, error) {
	c := &models.ContactSubmission{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Subject, &c.Message, &c.Type, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresContactRepository) Create(ctx context.Context, c *models.ContactSubmission) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
		INSERT INTO contact_submissions (id, name, email, company, subject, message, type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Email, c.Company, c.Subject, c.Message, c.Type, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *postgresContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_submissions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresContactRepository) filter(f ContactFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.Status != nil {
		b.where("status = " + b.arg(*f.Status))
	}
	if f.Type != nil {
		b.where("type = " + b.arg(*f.Type))
	}
	b.search(f.Search, "name", "email", "subject", "company")
	return b
}

func (r *postgresContactRepository) List(ctx context.Context, f ContactFilter) ([]models.ContactSubmission, error) {
	b := r.filter(f)
	query := `SELECT ` + contactColumns + ` FROM contact_submissions` + b.clause() +
		` ORDER BY created_at DESC, id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]models.ContactSubmission, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *c)
	}
	return submissions, rows.Err()
}

func (r *postgresContactRepository) Count(ctx context.Context, f ContactFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM contact_submissions`+b.clause(), b.args...)
}

func (r *postgresContactRepository) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactSubmission, error) {
	query := `
		UPDATE contact_submissions SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrContactNotFound)
}

func (r *postgresContactRepository) CountByStatus(ctx context.Context) (map[models.ContactStatus]int, error) {
	counts := make(map[models.ContactStatus]int)
	err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM contact_submissions GROUP BY status`, func(key string, n int) {
		counts[models.ContactStatus(key)] = n
	})
	return counts, err
}

func (r *postgresContactRepository) CountByType(ctx context.Context) (map[models.ContactType]int, error) {
	counts := make(map[models.ContactType]int)
	err := r.groupCount(ctx, `SELECT type, COUNT(*) FROM contact_submissions GROUP BY type`, func(key string, n int) {
		counts[models.ContactType(key)] = n
	})
	return counts, err
}

func (r *postgresContactRepository) groupCount(ctx context.Context, query string, add func(key string, n int)) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		add(key, n)
	}
	return rows.Err()
}
