package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medicareai/clinic-booking/internal/booking"
	"github.com/medicareai/clinic-booking/internal/logging"
)

type RouterConfig struct {
	Service  *booking.Service
	Sessions *SessionRegistry
	Metrics  *Metrics
	Logger   *logging.Logger
	PgPool   *pgxpool.Pool // nil in file mode
	Redis    *redis.Client // nil in file mode
	Storage  string
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = NewSessionRegistry()
	}

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Storage, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Get("/doctors", doctorsHandler(cfg.Service))
	r.Get("/doctors/{doctor}/slots", slotsHandler(cfg.Service))

	r.Post("/sessions", createSessionHandler(cfg.Sessions))
	r.Post("/sessions/{id}/lookup", lookupHandler(cfg.Service, cfg.Sessions))
	r.Put("/sessions/{id}/intake", intakeHandler(cfg.Service, cfg.Sessions))
	r.Post("/sessions/{id}/slot", chooseSlotHandler(cfg.Service, cfg.Sessions))
	r.Post("/sessions/{id}/book", bookHandler(cfg.Service, cfg.Sessions, cfg.Metrics))

	return r
}
