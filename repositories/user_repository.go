package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Count(ctx context.Context, filter models.UserFilter) (int, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

const userColumns = `id, email, name, password_hash, role, is_active, email_verified, created_at, updated_at`

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func mapUserWriteError(err error) error {
	code, constraint := pqErrorCode(err)
	if code == pqUniqueViolation && constraint == "users_email_key" {
		return ErrUserEmailConflict
	}
	return err
}

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, email, name, password_hash, role, is_active, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive, u.EmailVerified,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *postgresUserRepository) getOne(ctx context.Context, column string, arg interface{}) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail expects an already lower-cased email.
func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *postgresUserRepository) filter(f models.UserFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.Role != nil {
		b.where("role = " + b.arg(*f.Role))
	}
	if f.IsActive != nil {
		b.where("is_active = " + b.arg(*f.IsActive))
	}
	b.search(f.Search, "email", "name")
	return b
}

func (r *postgresUserRepository) List(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	b := r.filter(f)
	query := `SELECT ` + userColumns + ` FROM users` + b.clause() + ` ORDER BY created_at DESC, id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) Count(ctx context.Context, f models.UserFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM users`+b.clause(), b.args...)
}

func (r *postgresUserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			email = $1, name = $2, password_hash = $3, role = $4, is_active = $5, email_verified = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive, u.EmailVerified, u.ID,
	).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *postgresUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
