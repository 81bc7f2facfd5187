package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/ishow/feedback-backend/internal/handlers"
	"github.com/ishow/feedback-backend/internal/middleware"
	"github.com/sirupsen/logrus"
)

type Options struct {
	AllowedOrigins []string
	// AdminGate guards list, delete and the live feed. nil leaves them open.
	AdminGate  func(http.Handler) http.Handler
	Production bool
	Log        logrus.FieldLogger
}

// NewRouter builds the full middleware stack and registers every route.
func NewRouter(h *handlers.Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Log))
	r.Use(chimw.Recoverer)
	if opts.Production {
		r.Use(middleware.SecurityHeaders)
	}

	allowedHeaders := []string{"Content-Type"}
	if opts.AdminGate != nil {
		allowedHeaders = append(allowedHeaders, "Authorization")
	}
	r.Use(middleware.CORS(opts.AllowedOrigins, allowedHeaders))

	SetupRoutes(r, h, opts.AdminGate)
	return r
}

func SetupRoutes(r chi.Router, h *handlers.Handler, adminGate func(http.Handler) http.Handler) {
	// Liveness
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Public submission
	r.Post("/api/feedback", h.SubmitFeedback)

	// Admin
	r.Post("/api/admin-login", h.AdminLogin)
	r.Post("/api/admin-logout", h.AdminLogout)

	r.Group(func(r chi.Router) {
		if adminGate != nil {
			r.Use(adminGate)
		}
		r.Get("/api/feedbacks", h.ListFeedbacks)
		r.Delete("/api/delete/{id}", h.DeleteFeedback)
		r.Get("/ws/feedbacks", h.FeedbackStream)
	})
}
