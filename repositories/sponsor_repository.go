package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var ErrSponsorNotFound = errors.New("sponsor not found")

type SponsorRepository interface {
	Create(ctx context.Context, sponsor *models.Sponsor) error
	GetByID(ctx context.Context, id string) (*models.Sponsor, error)
	List(ctx context.Context, isActive *bool) ([]models.Sponsor, error)
	Update(ctx context.Context, sponsor *models.Sponsor) error
	Delete(ctx context.Context, id string) error
	UpdateDisplayOrder(ctx context.Context, exec SQLExecutor, id string, order int) error
}

const sponsorColumns = `id, name, logo_url, website_url, display_order, is_active, created_at, updated_at`

type postgresSponsorRepository struct {
	db *sql.DB
}

func NewPostgresSponsorRepository(db *sql.DB) SponsorRepository {
	return &postgresSponsorRepository{db: db}
}

func (r *postgresSponsorRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanSponsor(row rowScanner) (*models.Sponsor, error) {
	s := &models.Sponsor{}
	err := row.Scan(&s.ID, &s.Name, &s.LogoURL, &s.WebsiteURL, &s.DisplayOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresSponsorRepository) Create(ctx context.Context, s *models.Sponsor) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO sponsors (id, name, logo_url, website_url, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.LogoURL, s.WebsiteURL, s.DisplayOrder, s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *postgresSponsorRepository) GetByID(ctx context.Context, id string) (*models.Sponsor, error) {
	s, err := scanSponsor(r.db.QueryRowContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSponsorNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSponsorRepository) List(ctx context.Context, isActive *bool) ([]models.Sponsor, error) {
	b := &queryBuilder{}
	if isActive != nil {
		b.where("is_active = " + b.arg(*isActive))
	}
	query := `SELECT ` + sponsorColumns + ` FROM sponsors` + b.clause() + ` ORDER BY display_order ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sponsors := make([]models.Sponsor, 0)
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		sponsors = append(sponsors, *s)
	}
	return sponsors, rows.Err()
}

func (r *postgresSponsorRepository) Update(ctx context.Context, s *models.Sponsor) error {
	query := `
		UPDATE sponsors SET
			name = $1, logo_url = $2, website_url = $3, display_order = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.Name, s.LogoURL, s.WebsiteURL, s.DisplayOrder, s.IsActive, s.ID,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSponsorNotFound
	}
	return err
}

func (r *postgresSponsorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}

func (r *postgresSponsorRepository) UpdateDisplayOrder(ctx context.Context, exec SQLExecutor, id string, order int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE sponsors SET display_order = $1, updated_at = NOW() WHERE id = $2`, order, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}
