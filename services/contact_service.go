package services

import (
	"context"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultContactLimit = 20

type ContactInput struct {
	Name    *string             `json:"name"`
	Email   *string             `json:"email"`
	Company *string             `json:"company"`
	Subject *string             `json:"subject"`
	Message *string             `json:"message"`
	Type    *models.ContactType `json:"type"`
}

type ContactQuery struct {
	Status *models.ContactStatus
	Type   *models.ContactType
	Search string
	Page   int
	Limit  int
}

type ContactService interface {
	Create(ctx context.Context, input ContactInput) (*models.ContactSubmission, error)
	FindAll(ctx context.Context, query ContactQuery) (models.Page[models.ContactSubmission], error)
	FindByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.ContactStats, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Create(ctx context.Context, in ContactInput) (*models.ContactSubmission, error) {
	v := newValidator()
	v.minLen(in.Name, true, "name", 2)
	if in.Email == nil {
		v.check(false, "email", "is required")
	} else {
		v.email(normalizeEmail(*in.Email), "email")
	}
	v.minLen(in.Subject, true, "subject", 5)
	v.minLen(in.Message, true, "message", 10)
	if in.Type != nil {
		v.check(in.Type.Valid(), "type", "must be one of GENERAL, PARTNERSHIP, MEDIA, CAREER, SUPPORT")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	c := &models.ContactSubmission{
		Name:    *in.Name,
		Email:   normalizeEmail(*in.Email),
		Company: emptyToNil(in.Company),
		Subject: *in.Subject,
		Message: *in.Message,
		Type:    models.ContactGeneral,
		Status:  models.ContactNew,
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if err := s.contactRepo.Create(ctx, c); err != nil {
		return nil, handleRepositoryError(err, "create contact submission")
	}
	return c, nil
}

func (s *contactService) FindAll(ctx context.Context, q ContactQuery) (models.Page[models.ContactSubmission], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultContactLimit)
	if err != nil {
		return models.Page[models.ContactSubmission]{}, err
	}
	v := newValidator()
	if q.Status != nil {
		v.check(q.Status.Valid(), "status", "unknown contact status")
	}
	if q.Type != nil {
		v.check(q.Type.Valid(), "type", "unknown contact type")
	}
	if err := v.err(); err != nil {
		return models.Page[models.ContactSubmission]{}, err
	}

	filter := repositories.ContactFilter{Status: q.Status, Type: q.Type, Search: q.Search, Page: page, Limit: limit}
	var (
		items []models.ContactSubmission
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.contactRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.contactRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.ContactSubmission]{}, handleRepositoryError(err, "list contact submissions")
	}
	return models.NewPage(items, page, limit, total), nil
}

func (s *contactService) FindByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	if !isUUID(id) {
		return nil, ErrContactNotFound
	}
	c, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get contact submission")
	}
	return c, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactSubmission, error) {
	if !isUUID(id) {
		return nil, ErrContactNotFound
	}
	if !status.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "must be one of NEW, IN_PROGRESS, RESOLVED, ARCHIVED"}}
	}
	c, err := s.contactRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, handleRepositoryError(err, "update contact status")
	}
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrContactNotFound
	}
	return handleRepositoryError(s.contactRepo.Delete(ctx, id), "delete contact submission")
}

func (s *contactService) Stats(ctx context.Context) (models.ContactStats, error) {
	var (
		byStatus map[models.ContactStatus]int
		byType   map[models.ContactType]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.contactRepo.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.contactRepo.CountByType(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ContactStats{}, handleRepositoryError(err, "contact stats")
	}

	stats := models.ContactStats{
		ByStatus: models.ContactStatusCounts{
			New:        byStatus[models.ContactNew],
			InProgress: byStatus[models.ContactInProgress],
			Resolved:   byStatus[models.ContactResolved],
			Archived:   byStatus[models.ContactArchived],
		},
		ByType: make(map[string]int, len(byType)),
	}
	for _, n := range byStatus {
		stats.Total += n
	}
	for t, n := range byType {
		stats.ByType[string(t)] = n
	}
	return stats, nil
}
