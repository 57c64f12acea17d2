package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the cross-cutting pieces of the router.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// JWTService guards the write endpoints when set.
	JWTService jwt.Service
	// MetricsHandler is served on /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(opts RouterOptions, leaveHandler LeaveHandler, dashboardHandler DashboardHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	// Dashboard
	r.Get("/", dashboardHandler.Page)
	r.Group(func(r chi.Router) {
		// Browsers send the token in the jwt cookie
		if opts.JWTService != nil {
			r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
			r.Use(middleware.FormAuthRequired("/"))
		}
		r.Post("/register", dashboardHandler.SubmitRegistration)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", leaveHandler.Dashboard)
		r.Get("/usage", leaveHandler.ListUsage)
		r.Get("/leave-types", leaveHandler.ListTypes)

		r.Route("/leave-logs", func(r chi.Router) {
			r.Get("/", leaveHandler.ListLogs)

			// Requires authentication when a JWT secret is configured
			r.Group(func(r chi.Router) {
				protect(r, opts.JWTService)
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/", leaveHandler.Register)
			})
		})
	})
	return r
}

func protect(r chi.Router, jwtService jwt.Service) {
	if jwtService == nil {
		return
	}
	r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
	r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
}
