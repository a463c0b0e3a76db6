package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

var (
	ErrSubscriptionNotFound = errors.New("newsletter subscription not found")
	ErrSubscriptionExists   = errors.New("newsletter subscription already exists")
)

type NewsletterRepository interface {
	Create(ctx context.Context, sub *models.NewsletterSubscription) error
	GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	SetActive(ctx context.Context, sub *models.NewsletterSubscription) error
	List(ctx context.Context, isActive *bool) ([]models.NewsletterSubscription, error)
	Stats(ctx context.Context) (models.NewsletterStats, error)
}

const subscriptionColumns = `id, email, name, is_active, subscribed_at, unsubscribed_at`

type postgresNewsletterRepository struct {
	db *sql.DB
}

func NewPostgresNewsletterRepository(db *sql.DB) NewsletterRepository {
	return &postgresNewsletterRepository{db: db}
}

func scanSubscription(row rowScanner) (*models.NewsletterSubscription, error) {
	s := &models.NewsletterSubscription{}
	if err := row.Scan(&s.ID, &s.Email, &s.Name, &s.IsActive, &s.SubscribedAt, &s.UnsubscribedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresNewsletterRepository) Create(ctx context.Context, s *models.NewsletterSubscription) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO newsletter_subscriptions (id, email, name, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING is_active, subscribed_at`

	err := r.db.QueryRowContext(ctx, query, s.ID, s.Email, s.Name).Scan(&s.IsActive, &s.SubscribedAt)
	if err != nil {
		if code, _ := pqErrorCode(err); code == pqUniqueViolation {
			return ErrSubscriptionExists
		}
		return err
	}
	return nil
}

func (r *postgresNewsletterRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	s, err := scanSubscription(r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM newsletter_subscriptions WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return s, nil
}

// SetActive writes the name, active flag and unsubscribe timestamp of an existing subscription.
func (r *postgresNewsletterRepository) SetActive(ctx context.Context, s *models.NewsletterSubscription) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE newsletter_subscriptions SET name = $1, is_active = $2, unsubscribed_at = $3 WHERE id = $4`,
		s.Name, s.IsActive, s.UnsubscribedAt, s.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSubscriptionNotFound)
}

func (r *postgresNewsletterRepository) List(ctx context.Context, isActive *bool) ([]models.NewsletterSubscription, error) {
	b := &queryBuilder{}
	if isActive != nil {
		b.where("is_active = " + b.arg(*isActive))
	}
	query := `SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions` + b.clause() + ` ORDER BY subscribed_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.NewsletterSubscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

func (r *postgresNewsletterRepository) Stats(ctx context.Context) (models.NewsletterStats, error) {
	var stats models.NewsletterStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM newsletter_subscriptions`,
	).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return stats, err
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}
