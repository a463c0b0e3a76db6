package routes

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/handlers"
	"github.com/Dosada05/poker-dream-api/middleware"
	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/utils"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers собирает все обработчики, которые монтирует роутер.
type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Users      *handlers.AdminUserHandler
	Dashboard  *handlers.DashboardHandler
	Tournament *handlers.TournamentHandler
	Player     *handlers.PlayerHandler
	Standing   *handlers.StandingHandler
	News       *handlers.NewsHandler
	Video      *handlers.VideoHandler
	Sponsor    *handlers.SponsorHandler
	Gallery    *handlers.GalleryHandler
	Newsletter *handlers.NewsletterHandler
	Contact    *handlers.ContactHandler
	Upload     *handlers.UploadHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	AllowedOrigins []string
	// UploadDir is served at /uploads/ when images are stored on local disk.
	UploadDir string
}

var (
	admins      = []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin}
	editors     = []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin, models.RoleEditor}
	superAdmins = []models.UserRole{models.RoleSuperAdmin}
)

func SetupRoutes(router chi.Router, h Handlers, tokens *utils.TokenManager, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(tokens)
	// gate монтирует защищенную группу с проверкой ролей.
	gate := func(r chi.Router, roles []models.UserRole, fn func(r chi.Router)) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRoles(roles...))
			fn(r)
		})
	}

	router.Get("/health", h.Health.Check)
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/ws/tournaments/{id}/standings", h.WebSocket.ServeStandings)
	if opts.UploadDir != "" {
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", h.Auth.Me)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.List)
			r.Get("/upcoming", h.Tournament.Upcoming)
			r.Get("/live", h.Tournament.Live)
			r.Get("/stats", h.Tournament.Stats)
			r.Get("/{id}", h.Tournament.GetByID)
			gate(r, admins, func(r chi.Router) {
				r.Post("/", h.Tournament.Create)
				r.Put("/{id}", h.Tournament.Update)
				r.Put("/{id}/structure", h.Tournament.ReplaceStructure)
			})
			gate(r, superAdmins, func(r chi.Router) {
				r.Delete("/{id}", h.Tournament.Delete)
			})
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", h.News.List)
			r.Get("/slug/{slug}", h.News.GetBySlug)
			r.Get("/{id}", h.News.GetByID)
			gate(r, editors, func(r chi.Router) {
				r.Post("/", h.News.Create)
				r.Put("/{id}", h.News.Update)
			})
			gate(r, admins, func(r chi.Router) {
				r.Delete("/{id}", h.News.Delete)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", h.Video.List)
			r.Get("/{id}", h.Video.GetByID)
			r.Post("/{id}/view", h.Video.IncrementViews)
			gate(r, admins, func(r chi.Router) {
				r.Post("/", h.Video.Create)
				r.Put("/{id}", h.Video.Update)
				r.Delete("/{id}", h.Video.Delete)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.List)
			r.Get("/leaderboard", h.Player.Leaderboard)
			r.Get("/countries", h.Player.Countries)
			r.Get("/{id}", h.Player.GetByID)
			r.Get("/{id}/stats", h.Player.Stats)
			gate(r, admins, func(r chi.Router) {
				r.Post("/", h.Player.Create)
				r.Put("/{id}", h.Player.Update)
			})
			gate(r, superAdmins, func(r chi.Router) {
				r.Delete("/{id}", h.Player.Delete)
			})
		})

		r.Route("/standings", func(r chi.Router) {
			r.Get("/tournament/{tournamentID}", h.Standing.ByTournament)
			r.Get("/tournament/{tournamentID}/live", h.Standing.Live)
			r.Get("/player/{playerID}", h.Standing.ByPlayer)
			r.Get("/{id}", h.Standing.GetByID)
			gate(r, admins, func(r chi.Router) {
				r.Post("/", h.Standing.Create)
				r.Post("/bulk", h.Standing.BulkReplace)
				r.Put("/{id}", h.Standing.Update)
			})
			gate(r, superAdmins, func(r chi.Router) {
				r.Delete("/{id}", h.Standing.Delete)
			})
		})

		r.Route("/sponsors", func(r chi.Router) {
			r.Get("/", h.Sponsor.List)
			r.Get("/{id}", h.Sponsor.GetByID)
			gate(r, admins, func(r chi.Router) {
				r.Post("/", h.Sponsor.Create)
				r.Put("/reorder", h.Sponsor.Reorder)
				r.Put("/{id}", h.Sponsor.Update)
			})
			gate(r, superAdmins, func(r chi.Router) {
				r.Delete("/{id}", h.Sponsor.Delete)
			})
		})

		r.Route("/galleries", func(r chi.Router) {
			r.Get("/", h.Gallery.List)
			r.Get("/type/{type}", h.Gallery.ByType)
			r.Get("/{id}", h.Gallery.GetByID)
			gate(r, admins, func(r chi.Router) {
				r.Post("/", h.Gallery.Create)
				r.Put("/{id}", h.Gallery.Update)
				r.Put("/{id}/reorder", h.Gallery.ReorderPhotos)
				r.Post("/photos", h.Gallery.AddPhoto)
				r.Post("/photos/bulk", h.Gallery.BulkAddPhotos)
				r.Put("/photos/{id}", h.Gallery.UpdatePhoto)
			})
			gate(r, superAdmins, func(r chi.Router) {
				r.Delete("/{id}", h.Gallery.Delete)
				r.Delete("/photos/{id}", h.Gallery.DeletePhoto)
			})
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", h.Newsletter.Subscribe)
			r.Post("/unsubscribe", h.Newsletter.Unsubscribe)
			gate(r, admins, func(r chi.Router) {
				r.Get("/subscribers", h.Newsletter.Subscribers)
				r.Get("/stats", h.Newsletter.Stats)
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", h.Contact.Create)
			gate(r, admins, func(r chi.Router) {
				r.Get("/", h.Contact.List)
				r.Get("/stats", h.Contact.Stats)
				r.Get("/{id}", h.Contact.GetByID)
				r.Put("/{id}/status", h.Contact.UpdateStatus)
			})
			gate(r, superAdmins, func(r chi.Router) {
				r.Delete("/{id}", h.Contact.Delete)
			})
		})

		r.Route("/upload", func(r chi.Router) {
			gate(r, editors, func(r chi.Router) {
				r.Post("/image", h.Upload.UploadImage)
				r.Delete("/image/{filename}", h.Upload.DeleteImage)
			})
		})

		gate(r, admins, func(r chi.Router) {
			r.Get("/dashboard/stats", h.Dashboard.Stats)
		})

		r.Route("/users", func(r chi.Router) {
			gate(r, superAdmins, func(r chi.Router) {
				r.Get("/", h.Users.ListUsers)
				r.Get("/{id}", h.Users.GetUser)
				r.Put("/{id}", h.Users.UpdateUser)
				r.Delete("/{id}", h.Users.DeleteUser)
			})
		})
	})
}
