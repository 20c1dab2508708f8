// internal/api/router.go
package api

import (
	apperrors "studio-site/internal/common/errors"
	"studio-site/internal/common/logger"
	"studio-site/internal/intake"
	"studio-site/internal/models"
	"studio-site/internal/repository"
	"studio-site/internal/review"
	"studio-site/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the components the HTTP layer dispatches to.
type Dependencies struct {
	Intake  *intake.Handler
	Repo    *repository.Repository
	Review  *review.Handler
	Gate    *session.Gate
	Limiter *RateLimiter // nil disables rate limiting
	Logger  logger.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	intake *intake.Handler
	repo   *repository.Repository
	review *review.Handler
	gate   *session.Gate
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewRouter(deps Dependencies) *chi.Mux {
	log := deps.Logger.WithFields(map[string]interface{}{"component": "api"})
	s := &Server{
		intake: deps.Intake,
		repo:   deps.Repo,
		review: deps.Review,
		gate:   deps.Gate,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(Recovery(s.errors))
	r.Use(RequestLogger(log))

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(deps.Limiter.Middleware(s.errors))
			}
			r.Post("/support", s.submitForm(models.TypeSupport))
			r.Post("/staff-applications", s.submitForm(models.TypeStaffApplication))
			r.Post("/admin/login", s.login)
		})
		r.Post("/admin/logout", s.logout)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(deps.Gate, s.errors))

			r.Get("/admin/unread-count", s.unreadCount)
			r.Get("/admin/submissions", s.listSubmissions)
			r.Delete("/admin/submissions", s.deleteAll)
			r.Post("/admin/submissions/{id}/read", s.setRead(true))
			r.Post("/admin/submissions/{id}/unread", s.setRead(false))
			r.Post("/admin/submissions/{id}/review", s.reviewSubmission)
			r.Delete("/admin/submissions/{id}", s.deleteSubmission)
		})
	})

	return r
}
