package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the Chi router with all routes configured
// under /api. CORS is open to allowedOrigins.
func NewRouter(handlers *Handlers, allowedOrigins []string, store storePinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandlerFunc(store, log))
		r.Get("/countries", handlers.GetAvailableCountries)
		r.Get("/country-info/{countryCode}", handlers.GetCountryInfo)
		r.Post("/users/{userId}/calendar/holidays", handlers.AddHolidays)
		r.Get("/users/{userId}/calendar/holidays", handlers.ListHolidays)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
