package services

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
)

type SponsorInput struct {
	Name         *string `json:"name"`
	LogoURL      *string `json:"logoUrl"`
	WebsiteURL   *string `json:"websiteUrl"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

type SponsorService interface {
	Create(ctx context.Context, input SponsorInput) (*models.Sponsor, error)
	FindAll(ctx context.Context, isActive *bool) ([]models.Sponsor, error)
	FindByID(ctx context.Context, id string) (*models.Sponsor, error)
	Update(ctx context.Context, id string, input SponsorInput) (*models.Sponsor, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) ([]models.Sponsor, error)
}

type sponsorService struct {
	db          *sql.DB
	sponsorRepo repositories.SponsorRepository
	logger      *slog.Logger
}

func NewSponsorService(db *sql.DB, sponsorRepo repositories.SponsorRepository, logger *slog.Logger) SponsorService {
	return &sponsorService{db: db, sponsorRepo: sponsorRepo, logger: logger}
}

func validateSponsor(in SponsorInput, create bool) error {
	v := newValidator()
	v.minLen(in.Name, create, "name", 2)
	v.url(in.LogoURL, create, "logoUrl")
	if in.WebsiteURL != nil {
		v.url(in.WebsiteURL, false, "websiteUrl")
	}
	if in.DisplayOrder != nil {
		v.check(*in.DisplayOrder >= 0, "displayOrder", "must not be negative")
	}
	return v.err()
}

func (in SponsorInput) apply(s *models.Sponsor) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.LogoURL != nil {
		s.LogoURL = *in.LogoURL
	}
	if in.WebsiteURL != nil {
		s.WebsiteURL = in.WebsiteURL
	}
	if in.DisplayOrder != nil {
		s.DisplayOrder = *in.DisplayOrder
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
}

func (s *sponsorService) Create(ctx context.Context, in SponsorInput) (*models.Sponsor, error) {
	if err := validateSponsor(in, true); err != nil {
		return nil, err
	}
	sp := &models.Sponsor{IsActive: true}
	in.apply(sp)
	if err := s.sponsorRepo.Create(ctx, sp); err != nil {
		return nil, handleRepositoryError(err, "create sponsor")
	}
	return sp, nil
}

func (s *sponsorService) FindAll(ctx context.Context, isActive *bool) ([]models.Sponsor, error) {
	sponsors, err := s.sponsorRepo.List(ctx, isActive)
	if err != nil {
		return nil, handleRepositoryError(err, "list sponsors")
	}
	return sponsors, nil
}

func (s *sponsorService) FindByID(ctx context.Context, id string) (*models.Sponsor, error) {
	if !isUUID(id) {
		return nil, ErrSponsorNotFound
	}
	sp, err := s.sponsorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get sponsor")
	}
	return sp, nil
}

func (s *sponsorService) Update(ctx context.Context, id string, in SponsorInput) (*models.Sponsor, error) {
	if !isUUID(id) {
		return nil, ErrSponsorNotFound
	}
	if err := validateSponsor(in, false); err != nil {
		return nil, err
	}
	sp, err := s.sponsorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get sponsor")
	}
	in.apply(sp)
	if err := s.sponsorRepo.Update(ctx, sp); err != nil {
		return nil, handleRepositoryError(err, "update sponsor")
	}
	return sp, nil
}

func (s *sponsorService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrSponsorNotFound
	}
	if _, err := s.sponsorRepo.GetByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get sponsor")
	}
	return handleRepositoryError(s.sponsorRepo.Delete(ctx, id), "delete sponsor")
}

// Reorder sets displayOrder to each sponsor's index in ids. An unknown id
// aborts the whole reorder.
func (s *sponsorService) Reorder(ctx context.Context, ids []string) ([]models.Sponsor, error) {
	if err := validateIDList(ids, "sponsorIds"); err != nil {
		return nil, err
	}

	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		for i, id := range ids {
			if err := s.sponsorRepo.UpdateDisplayOrder(ctx, tx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "reorder sponsors")
	}
	return s.FindAll(ctx, nil)
}

func validateIDList(ids []string, field string) error {
	v := newValidator()
	v.check(len(ids) > 0, field, "must not be empty")
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		name := field + "[" + itoa(i) + "]"
		v.check(isUUID(id), name, "invalid ID")
		v.check(!seen[id], name, "is listed more than once")
		seen[id] = true
	}
	return v.err()
}
