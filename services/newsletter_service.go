package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

type SubscribeInput struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type SubscribersReport struct {
	Data  []models.NewsletterSubscription `json:"data"`
	Stats models.NewsletterStats          `json:"stats"`
}

type NewsletterService interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*models.NewsletterSubscription, error)
	Unsubscribe(ctx context.Context, email string) error
	Subscribers(ctx context.Context, isActive *bool) (SubscribersReport, error)
	Stats(ctx context.Context) (models.NewsletterStats, error)
}

type newsletterService struct {
	newsletterRepo repositories.NewsletterRepository
	now            func() time.Time
}

func NewNewsletterService(newsletterRepo repositories.NewsletterRepository) NewsletterService {
	return &newsletterService{newsletterRepo: newsletterRepo, now: time.Now}
}

// Subscribe creates a subscription or reactivates a previously cancelled one.
func (s *newsletterService) Subscribe(ctx context.Context, in SubscribeInput) (*models.NewsletterSubscription, error) {
	email := normalizeEmail(in.Email)
	v := newValidator()
	v.email(email, "email")
	if in.Name != nil {
		v.minLen(in.Name, false, "name", 1)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	existing, err := s.newsletterRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, ErrAlreadySubscribed
		}
		existing.IsActive = true
		existing.UnsubscribedAt = nil
		if in.Name != nil {
			existing.Name = in.Name
		}
		if err := s.newsletterRepo.SetActive(ctx, existing); err != nil {
			return nil, handleRepositoryError(err, "reactivate subscription")
		}
		return existing, nil
	case !errors.Is(err, repositories.ErrSubscriptionNotFound):
		return nil, handleRepositoryError(err, "get subscription")
	}

	sub := &models.NewsletterSubscription{Email: email, Name: in.Name, IsActive: true}
	if err := s.newsletterRepo.Create(ctx, sub); err != nil {
		// параллельная подписка на тот же адрес
		return nil, handleRepositoryError(err, "create subscription")
	}
	return sub, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	v := newValidator()
	v.email(email, "email")
	if err := v.err(); err != nil {
		return err
	}

	sub, err := s.newsletterRepo.GetByEmail(ctx, email)
	if err != nil {
		return handleRepositoryError(err, "get subscription")
	}
	if !sub.IsActive {
		return ErrAlreadyUnsubscribed
	}
	now := s.now()
	sub.IsActive = false
	sub.UnsubscribedAt = &now
	return handleRepositoryError(s.newsletterRepo.SetActive(ctx, sub), "unsubscribe")
}

func (s *newsletterService) Subscribers(ctx context.Context, isActive *bool) (SubscribersReport, error) {
	var report SubscribersReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Data, err = s.newsletterRepo.List(gctx, isActive)
		return err
	})
	g.Go(func() error {
		var err error
		report.Stats, err = s.newsletterRepo.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SubscribersReport{}, handleRepositoryError(err, "list subscribers")
	}
	if report.Data == nil {
		report.Data = []models.NewsletterSubscription{}
	}
	return report, nil
}

func (s *newsletterService) Stats(ctx context.Context) (models.NewsletterStats, error) {
	stats, err := s.newsletterRepo.Stats(ctx)
	if err != nil {
		return models.NewsletterStats{}, handleRepositoryError(err, "newsletter stats")
	}
	return stats, nil
}
