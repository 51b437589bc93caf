package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicware/agenda/internal/appointments"
	httpmiddleware "github.com/clinicware/agenda/internal/http/middleware"
	"github.com/clinicware/agenda/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	StaffJWTSecret      string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", handleHealth)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Staff endpoints. When no JWT secret is configured the routes are
	// open, which keeps local development friction-free.
	r.Group(func(staff chi.Router) {
		if cfg.StaffJWTSecret != "" {
			staff.Use(httpmiddleware.StaffJWT(cfg.StaffJWTSecret))
		}

		if cfg.AppointmentsHandler != nil {
			h := cfg.AppointmentsHandler
			staff.Route("/appointments", func(r chi.Router) {
				r.Post("/", h.Schedule)
				r.Get("/", h.List)
				r.Get("/week", h.Week)
				r.Get("/stats/daily", h.DailyStats)
				r.Patch("/{id}/status", h.UpdateStatus)
				r.Patch("/{id}/reschedule", h.Reschedule)
			})
			staff.Get("/services", h.ListServices)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
