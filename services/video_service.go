package services

import (
	"context"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultVideoLimit = 10

type VideoInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	VideoURL        *string    `json:"videoUrl"`
	ThumbnailURL    *string    `json:"thumbnailUrl"`
	DurationSeconds *int       `json:"durationSeconds"`
	TournamentID    *string    `json:"tournamentId"`
	PublishedAt     *time.Time `json:"publishedAt"`
}

type VideoQuery struct {
	TournamentID *string
	Search       string
	Page         int
	Limit        int
}

type VideoService interface {
	Create(ctx context.Context, input VideoInput) (*models.VideoHighlight, error)
	FindAll(ctx context.Context, query VideoQuery) (models.Page[models.VideoHighlight], error)
	FindByID(ctx context.Context, id string) (*models.VideoHighlight, error)
	Update(ctx context.Context, id string, input VideoInput) (*models.VideoHighlight, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int, error)
}

type videoService struct {
	videoRepo      repositories.VideoRepository
	tournamentRepo repositories.TournamentRepository
}

func NewVideoService(videoRepo repositories.VideoRepository, tournamentRepo repositories.TournamentRepository) VideoService {
	return &videoService{videoRepo: videoRepo, tournamentRepo: tournamentRepo}
}

func validateVideo(in VideoInput, create bool) error {
	v := newValidator()
	v.minLen(in.Title, create, "title", 3)
	v.url(in.VideoURL, create, "videoUrl")
	if in.ThumbnailURL != nil {
		v.url(in.ThumbnailURL, false, "thumbnailUrl")
	}
	if in.DurationSeconds != nil {
		v.check(*in.DurationSeconds > 0, "durationSeconds", "must be a positive number")
	}
	if in.TournamentID != nil {
		v.check(isUUID(*in.TournamentID), "tournamentId", "invalid tournament ID")
	}
	return v.err()
}

func (in VideoInput) apply(v *models.VideoHighlight) {
	if in.Title != nil {
		v.Title = *in.Title
	}
	if in.Description != nil {
		v.Description = in.Description
	}
	if in.VideoURL != nil {
		v.VideoURL = *in.VideoURL
	}
	if in.ThumbnailURL != nil {
		v.ThumbnailURL = in.ThumbnailURL
	}
	if in.DurationSeconds != nil {
		v.DurationSeconds = in.DurationSeconds
	}
	if in.TournamentID != nil {
		v.TournamentID = in.TournamentID
	}
	if in.PublishedAt != nil {
		v.PublishedAt = *in.PublishedAt
	}
}

func (s *videoService) checkTournament(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.tournamentRepo.GetByID(ctx, *id)
	return handleRepositoryError(err, "get tournament")
}

func (s *videoService) Create(ctx context.Context, in VideoInput) (*models.VideoHighlight, error) {
	if err := validateVideo(in, true); err != nil {
		return nil, err
	}
	if err := s.checkTournament(ctx, in.TournamentID); err != nil {
		return nil, err
	}
	v := &models.VideoHighlight{}
	in.apply(v)
	if err := s.videoRepo.Create(ctx, v); err != nil {
		return nil, handleRepositoryError(err, "create video")
	}
	return s.FindByID(ctx, v.ID)
}

func (s *videoService) FindAll(ctx context.Context, q VideoQuery) (models.Page[models.VideoHighlight], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultVideoLimit)
	if err != nil {
		return models.Page[models.VideoHighlight]{}, err
	}
	if q.TournamentID != nil && !isUUID(*q.TournamentID) {
		return models.Page[models.VideoHighlight]{}, &ValidationError{Fields: map[string]string{"tournamentId": "invalid tournament ID"}}
	}
	filter := repositories.VideoFilter{TournamentID: q.TournamentID, Search: q.Search, Page: page, Limit: limit}

	var (
		videos []models.VideoHighlight
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videos, err = s.videoRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.videoRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.VideoHighlight]{}, handleRepositoryError(err, "list videos")
	}
	return models.NewPage(videos, page, limit, total), nil
}

func (s *videoService) FindByID(ctx context.Context, id string) (*models.VideoHighlight, error) {
	if !isUUID(id) {
		return nil, ErrVideoNotFound
	}
	v, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get video")
	}
	return v, nil
}

func (s *videoService) Update(ctx context.Context, id string, in VideoInput) (*models.VideoHighlight, error) {
	if !isUUID(id) {
		return nil, ErrVideoNotFound
	}
	if err := validateVideo(in, false); err != nil {
		return nil, err
	}
	v, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get video")
	}
	if err := s.checkTournament(ctx, in.TournamentID); err != nil {
		return nil, err
	}
	in.apply(v)
	if err := s.videoRepo.Update(ctx, v); err != nil {
		return nil, handleRepositoryError(err, "update video")
	}
	return s.FindByID(ctx, id)
}

func (s *videoService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrVideoNotFound
	}
	if _, err := s.videoRepo.GetByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get video")
	}
	return handleRepositoryError(s.videoRepo.Delete(ctx, id), "delete video")
}

func (s *videoService) IncrementViews(ctx context.Context, id string) (int, error) {
	if !isUUID(id) {
		return 0, ErrVideoNotFound
	}
	views, err := s.videoRepo.IncrementViews(ctx, id)
	if err != nil {
		return 0, handleRepositoryError(err, "increment video views")
	}
	return views, nil
}
