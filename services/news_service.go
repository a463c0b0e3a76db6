package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

const defaultNewsLimit = 10

type NewsInput struct {
	Title       *string              `json:"title"`
	Summary     *string              `json:"summary"`
	Content     *string              `json:"content"`
	ImageURL    *string              `json:"imageUrl"`
	Category    *models.NewsCategory `json:"category"`
	Author      *string              `json:"author"`
	IsPublished *bool                `json:"isPublished"`
	PublishedAt *time.Time           `json:"publishedAt"`
}

type NewsQuery struct {
	Category    *models.NewsCategory
	IsPublished *bool
	Search      string
	Page        int
	Limit       int
}

type NewsService interface {
	Create(ctx context.Context, input NewsInput) (*models.NewsArticle, error)
	FindAll(ctx context.Context, query NewsQuery) (models.Page[models.NewsArticle], error)
	FindByID(ctx context.Context, id string) (*models.NewsArticle, error)
	FindBySlug(ctx context.Context, slug string) (*models.NewsArticle, error)
	Update(ctx context.Context, id string, input NewsInput) (*models.NewsArticle, error)
	Delete(ctx context.Context, id string) error
}

type newsService struct {
	newsRepo repositories.NewsRepository
	now      func() time.Time
}

func NewNewsService(newsRepo repositories.NewsRepository) NewsService {
	return &newsService{newsRepo: newsRepo, now: time.Now}
}

func validateNews(in NewsInput, create bool) error {
	v := newValidator()
	v.minLen(in.Title, create, "title", 3)
	v.minLen(in.Content, create, "content", 10)
	if in.ImageURL != nil {
		v.url(in.ImageURL, false, "imageUrl")
	}
	if in.Category != nil {
		v.check(in.Category.Valid(), "category", "unknown news category")
	}
	if in.Title != nil {
		v.check(slug.Make(*in.Title) != "", "title", "must contain letters or digits")
	}
	return v.err()
}

func (in NewsInput) apply(n *models.NewsArticle) {
	if in.Title != nil {
		n.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		n.Summary = in.Summary
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.ImageURL != nil {
		n.ImageURL = in.ImageURL
	}
	if in.Category != nil {
		n.Category = *in.Category
	}
	if in.Author != nil {
		n.Author = in.Author
	}
	if in.IsPublished != nil {
		n.IsPublished = *in.IsPublished
	}
	if in.PublishedAt != nil {
		n.PublishedAt = in.PublishedAt
	}
}

// stampPublished sets publishedAt the first time an article goes out without one.
func (s *newsService) stampPublished(n *models.NewsArticle) {
	if n.IsPublished && n.PublishedAt == nil {
		now := s.now().UTC()
		n.PublishedAt = &now
	}
}

func (s *newsService) Create(ctx context.Context, in NewsInput) (*models.NewsArticle, error) {
	if err := validateNews(in, true); err != nil {
		return nil, err
	}
	n := &models.NewsArticle{Category: models.CategoryGeneral}
	in.apply(n)
	s.stampPublished(n)
	n.Slug = slug.Make(n.Title)

	err := s.newsRepo.Create(ctx, n)
	if errors.Is(err, repositories.ErrNewsSlugTaken) {
		// Заголовок уже встречался: добавляем короткий суффикс.
		n.Slug = uniqueSlug(n.Title)
		err = s.newsRepo.Create(ctx, n)
	}
	if err != nil {
		return nil, handleRepositoryError(err, "create news")
	}
	return n, nil
}

func uniqueSlug(title string) string {
	return slug.Make(title) + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func (s *newsService) FindAll(ctx context.Context, q NewsQuery) (models.Page[models.NewsArticle], error) {
	page, limit, err := normalizePage(q.Page, q.Limit, defaultNewsLimit)
	if err != nil {
		return models.Page[models.NewsArticle]{}, err
	}
	if q.Category != nil && !q.Category.Valid() {
		return models.Page[models.NewsArticle]{}, &ValidationError{Fields: map[string]string{"category": "unknown news category"}}
	}
	filter := repositories.NewsFilter{
		Category:    q.Category,
		IsPublished: q.IsPublished,
		Search:      q.Search,
		Page:        page,
		Limit:       limit,
	}

	var (
		articles []models.NewsArticle
		total    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		articles, err = s.newsRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.newsRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.NewsArticle]{}, handleRepositoryError(err, "list news")
	}
	return models.NewPage(articles, page, limit, total), nil
}

func (s *newsService) FindByID(ctx context.Context, id string) (*models.NewsArticle, error) {
	if !isUUID(id) {
		return nil, ErrNewsNotFound
	}
	n, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get news")
	}
	return n, nil
}

func (s *newsService) FindBySlug(ctx context.Context, value string) (*models.NewsArticle, error) {
	if value == "" {
		return nil, ErrNewsNotFound
	}
	n, err := s.newsRepo.GetBySlug(ctx, value)
	if err != nil {
		return nil, handleRepositoryError(err, "get news by slug")
	}
	return n, nil
}

// Update keeps the slug stable unless the title changes.
func (s *newsService) Update(ctx context.Context, id string, in NewsInput) (*models.NewsArticle, error) {
	if !isUUID(id) {
		return nil, ErrNewsNotFound
	}
	if err := validateNews(in, false); err != nil {
		return nil, err
	}
	n, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get news")
	}
	oldTitle := n.Title
	in.apply(n)
	s.stampPublished(n)
	if n.Title != oldTitle {
		n.Slug = slug.Make(n.Title)
	}

	err = s.newsRepo.Update(ctx, n)
	if errors.Is(err, repositories.ErrNewsSlugTaken) {
		n.Slug = uniqueSlug(n.Title)
		err = s.newsRepo.Update(ctx, n)
	}
	if err != nil {
		return nil, handleRepositoryError(err, "update news")
	}
	return n, nil
}

func (s *newsService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNewsNotFound
	}
	if _, err := s.newsRepo.GetByID(ctx, id); err != nil {
		return handleRepositoryError(err, "get news")
	}
	return handleRepositoryError(s.newsRepo.Delete(ctx, id), "delete news")
}
