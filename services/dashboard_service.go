package services

import (
	"context"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	tournaments TournamentService
	playerRepo  repositories.PlayerRepository
	newsRepo    repositories.NewsRepository
	videoRepo   repositories.VideoRepository
	newsletter  repositories.NewsletterRepository
	contactRepo repositories.ContactRepository
	userRepo    repositories.UserRepository
}

func NewDashboardService(
	tournaments TournamentService,
	playerRepo repositories.PlayerRepository,
	newsRepo repositories.NewsRepository,
	videoRepo repositories.VideoRepository,
	newsletter repositories.NewsletterRepository,
	contactRepo repositories.ContactRepository,
	userRepo repositories.UserRepository,
) DashboardService {
	return &dashboardService{
		tournaments: tournaments,
		playerRepo:  playerRepo,
		newsRepo:    newsRepo,
		videoRepo:   videoRepo,
		newsletter:  newsletter,
		contactRepo: contactRepo,
		userRepo:    userRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	published := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Tournaments, err = s.tournaments.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PlayersTotal, err = s.playerRepo.Count(gctx, repositories.PlayerFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.NewsPublished, err = s.newsRepo.Count(gctx, repositories.NewsFilter{IsPublished: &published})
		return err
	})
	g.Go(func() error {
		var err error
		stats.VideosTotal, err = s.videoRepo.Count(gctx, repositories.VideoFilter{})
		return err
	})
	g.Go(func() error {
		ns, err := s.newsletter.Stats(gctx)
		stats.ActiveSubscribers = ns.Active
		return err
	})
	g.Go(func() error {
		byStatus, err := s.contactRepo.CountByStatus(gctx)
		stats.NewContacts = byStatus[models.ContactNew]
		return err
	})
	g.Go(func() error {
		var err error
		stats.UsersTotal, err = s.userRepo.Count(gctx, models.UserFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, handleRepositoryError(err, "dashboard stats")
	}
	return stats, nil
}
