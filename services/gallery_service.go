package services

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	defaultGalleryLimit = 10
	previewPhotos       = 4
)

type GalleryInput struct {
	Type        *models.GalleryType `json:"type"`
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Date        *time.Time          `json:"date"`
}

type GalleryQuery struct {
	Type  *models.GalleryType
	Page  int
	Limit int
}

type PhotoInput struct {
	GalleryID    string  `json:"galleryId"`
	ImageURL     *string `json:"imageUrl"`
	Caption      *string `json:"caption"`
	DisplayOrder *int    `json:"displayOrder"`
}

type BulkPhotosInput struct {
	GalleryID string       `json:"galleryId"`
	Photos    []PhotoInput `json:"photos"`
}

type GalleryService interface {
	Create(ctx context.Context, input GalleryInput) (*models.Gallery, error)
	FindAll(ctx context.Context, query GalleryQuery) (models.Page[models.Gallery], error)
	FindByID(ctx context.Context, id string) (*models.Gallery, error)
	ByType(ctx context.Context, galleryType models.GalleryType) ([]models.Gallery, error)
	Update(ctx context.Context, id string, input GalleryInput) (*models.Gallery, error)
	Delete(ctx context.Context, id string) error

	AddPhoto(ctx context.Context, input PhotoInput) (*models.GalleryPhoto, error)
	BulkAddPhotos(ctx context.Context, input BulkPhotosInput) ([]models.GalleryPhoto, error)
	UpdatePhoto(ctx context.Context, id string, input PhotoInput) (*models.GalleryPhoto, error)
	DeletePhoto(ctx context.Context, id string) error
	ReorderPhotos(ctx context.Context, galleryID string, photoIDs []string) ([]models.GalleryPhoto, error)
}

type galleryService struct {
	db          *sql.DB
	galleryRepo repositories.GalleryRepository
	logger      *slog.Logger
}

func NewGalleryService(db *sql.DB, galleryRepo repositories.GalleryRepository, logger *slog.Logger) GalleryService {
	return &galleryService{db: db, galleryRepo: galleryRepo, logger: logger}
}

func validateGallery(in GalleryInput, create bool) error {
	v := newValidator()
	if in.Type == nil {
		v.check(!create, "type", "is required")
	} else {
		v.check(in.Type.Valid(), "type", "must be one of TOURNAMENT, CHAMPION, EVENT, GENERAL")
	}
	v.minLen(in.Title, create, "title", 2)
	return v.err()
}

func (in GalleryInput) apply(g *models.Gallery) {
	if in.Type != nil {
		g.Type = *in.Type
	}
	if in.Title != nil {
		g.Title = *in.Title
	}
	if in.Description != nil {
		g.Description = in.Description
	}
	if in.Date != nil {
		g.Date = in.Date
	}
}

func checkPhoto(v *validator, prefix string, in PhotoInput, create bool) {
	v.url(in.ImageURL, create, prefix+"imageUrl")
	if in.DisplayOrder != nil {
		v.check(*in.DisplayOrder >= 0, prefix+"displayOrder", "must not be negative")
	}
}

func (s *galleryService) Create(ctx context.Context, in GalleryInput) (*models.Gallery, error) {
	if err := validateGallery(in, true); err != nil {
		return nil, err
	}
	g := &models.Gallery{}
	in.apply(g)
	if err := s.galleryRepo.Create(ctx, g); err != nil {
		return nil, handleRepositoryError(err, "create gallery")
	}
	g.Photos = []models.GalleryPhoto{}
	return g, nil
}

// FindAll returns galleries with up to four preview photos each.
func (s *galleryService) FindAll(ctx context.Context, q GalleryQuery) (models.Page[models.Gallery], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultGalleryLimit)
	if err != nil {
		return models.Page[models.Gallery]{}, err
	}
	if q.Type != nil && !q.Type.Valid() {
		return models.Page[models.Gallery]{}, &ValidationError{Fields: map[string]string{"type": "unknown gallery type"}}
	}
	filter := repositories.GalleryFilter{Type: q.Type, Page: page, Limit: limit}

	var (
		galleries []models.Gallery
		total     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		galleries, err = s.galleryRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.galleryRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.Gallery]{}, handleRepositoryError(err, "list galleries")
	}

	if err := s.attachPhotos(ctx, galleries, previewPhotos); err != nil {
		return models.Page[models.Gallery]{}, err
	}
	return models.NewPage(galleries, page, limit, total), nil
}

func (s *galleryService) attachPhotos(ctx context.Context, galleries []models.Gallery, perGallery int) error {
	ids := make([]string, len(galleries))
	for i := range galleries {
		ids[i] = galleries[i].ID
	}
	photos, err := s.galleryRepo.ListPreviewPhotos(ctx, ids, perGallery)
	if err != nil {
		return handleRepositoryError(err, "list gallery photos")
	}
	for i := range galleries {
		galleries[i].Photos = photos[galleries[i].ID]
		if galleries[i].Photos == nil {
			galleries[i].Photos = []models.GalleryPhoto{}
		}
	}
	return nil
}

func (s *galleryService) FindByID(ctx context.Context, id string) (*models.Gallery, error) {
	if !isUUID(id) {
		return nil, ErrGalleryNotFound
	}
	g, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get gallery")
	}
	photos, err := s.galleryRepo.ListPhotos(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "list gallery photos")
	}
	g.Photos = photos
	count := len(photos)
	g.PhotoCount = &count
	return g, nil
}

// ByType returns every gallery of the type with all of its photos.
func (s *galleryService) ByType(ctx context.Context, galleryType models.GalleryType) ([]models.Gallery, error) {
	if !galleryType.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"type": "unknown gallery type"}}
	}
	galleries, err := s.galleryRepo.List(ctx, repositories.GalleryFilter{Type: &galleryType})
	if err != nil {
		return nil, handleRepositoryError(err, "list galleries")
	}
	if err := s.attachPhotos(ctx, galleries, 0); err != nil {
		return nil, err
	}
	return galleries, nil
}

func (s *galleryService) Update(ctx context.Context, id string, in GalleryInput) (*models.Gallery, error) {
	if !isUUID(id) {
		return nil, ErrGalleryNotFound
	}
	if err := validateGallery(in, false); err != nil {
		return nil, err
	}
	g, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get gallery")
	}
	in.apply(g)
	if err := s.galleryRepo.Update(ctx, g); err != nil {
		return nil, handleRepositoryError(err, "update gallery")
	}
	return s.FindByID(ctx, id)
}

func (s *galleryService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrGalleryNotFound
	}
	if _, err := s.galleryRepo.GetByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get gallery")
	}
	return handleRepositoryError(s.galleryRepo.Delete(ctx, id), "delete gallery")
}

func (s *galleryService) AddPhoto(ctx context.Context, in PhotoInput) (*models.GalleryPhoto, error) {
	v := newValidator()
	v.check(isUUID(in.GalleryID), "galleryId", "invalid gallery ID")
	checkPhoto(v, "", in, true)
	if err := v.err(); err != nil {
		return nil, err
	}
	if _, err := s.galleryRepo.GetByID(ctx, in.GalleryID); err != nil {
		return nil, handleRepositoryError(err, "get gallery")
	}

	p := &models.GalleryPhoto{GalleryID: in.GalleryID, ImageURL: *in.ImageURL, Caption: in.Caption}
	if in.DisplayOrder != nil {
		p.DisplayOrder = *in.DisplayOrder
	}
	if err := s.galleryRepo.CreatePhoto(ctx, nil, p); err != nil {
		return nil, handleRepositoryError(err, "create photo")
	}
	return p, nil
}

// BulkAddPhotos appends photos after the gallery's current last position,
// unless a photo carries its own displayOrder.
func (s *galleryService) BulkAddPhotos(ctx context.Context, in BulkPhotosInput) ([]models.GalleryPhoto, error) {
	v := newValidator()
	v.check(isUUID(in.GalleryID), "galleryId", "invalid gallery ID")
	v.check(len(in.Photos) > 0, "photos", "must not be empty")
	for i, p := range in.Photos {
		checkPhoto(v, "photos["+itoa(i)+"].", p, true)
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if _, err := s.galleryRepo.GetByID(ctx, in.GalleryID); err != nil {
		return nil, handleRepositoryError(err, "get gallery")
	}

	photos := make([]models.GalleryPhoto, len(in.Photos))
	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		last, err := s.galleryRepo.MaxDisplayOrder(ctx, tx, in.GalleryID)
		if err != nil {
			return err
		}
		for i, p := range in.Photos {
			photos[i] = models.GalleryPhoto{
				GalleryID:    in.GalleryID,
				ImageURL:     *p.ImageURL,
				Caption:      p.Caption,
				DisplayOrder: last + 1 + i,
			}
			if p.DisplayOrder != nil {
				photos[i].DisplayOrder = *p.DisplayOrder
			}
			if err := s.galleryRepo.CreatePhoto(ctx, tx, &photos[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "add photos")
	}
	return photos, nil
}

func (s *galleryService) UpdatePhoto(ctx context.Context, id string, in PhotoInput) (*models.GalleryPhoto, error) {
	if !isUUID(id) {
		return nil, ErrPhotoNotFound
	}
	v := newValidator()
	checkPhoto(v, "", in, false)
	if err := v.err(); err != nil {
		return nil, err
	}
	p, err := s.galleryRepo.GetPhotoByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get photo")
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Caption != nil {
		p.Caption = in.Caption
	}
	if in.DisplayOrder != nil {
		p.DisplayOrder = *in.DisplayOrder
	}
	if err := s.galleryRepo.UpdatePhoto(ctx, p); err != nil {
		return nil, handleRepositoryError(err, "update photo")
	}
	return p, nil
}

func (s *galleryService) DeletePhoto(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrPhotoNotFound
	}
	if _, err := s.galleryRepo.GetPhotoByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get photo")
	}
	return handleRepositoryError(s.galleryRepo.DeletePhoto(ctx, id), "delete photo")
}

// ReorderPhotos sets displayOrder to each photo's index in photoIDs. A photo
// outside the gallery aborts the whole reorder.
func (s *galleryService) ReorderPhotos(ctx context.Context, galleryID string, photoIDs []string) ([]models.GalleryPhoto, error) {
	if !isUUID(galleryID) {
		return nil, ErrGalleryNotFound
	}
	if err := validateIDList(photoIDs, "photoIds"); err != nil {
		return nil, err
	}
	if _, err := s.galleryRepo.GetByID(ctx, galleryID); err != nil {
		return nil, handleRepositoryError(err, "get gallery")
	}

	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		for i, id := range photoIDs {
			if err := s.galleryRepo.UpdatePhotoOrder(ctx, tx, galleryID, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "reorder photos")
	}

	photos, err := s.galleryRepo.ListPhotos(ctx, galleryID)
	if err != nil {
		return nil, handleRepositoryError(err, "list gallery photos")
	}
	return photos, nil
}
