package api

import (
	"net/http"
	"swap-match-service/internal/api/handlers"
	"swap-match-service/internal/config"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"

	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer needs. Limiter and Metrics may be nil.
type Deps struct {
	Logger         *zap.Logger
	Repo           ports.ListingRepository
	Limiter        ports.RateLimiter
	Metrics        *obs.Metrics
	Match          config.MatchConfig
	AllowedOrigins []string
	HealthChecks   map[string]ports.Pinger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	matchHandler := &handlers.MatchHandler{
		Repo:    d.Repo,
		Limiter: d.Limiter,
		Metrics: d.Metrics,
		Match:   d.Match,
	}
	healthHandler := &handlers.HealthHandler{Checks: d.HealthChecks}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/find-match", matchHandler.FindMatch)
	mux.Handle("/metrics", d.Metrics.Handler())

	var h http.Handler = mux
	h = corsMiddleware(d.AllowedOrigins)(h)
	h = recoverMiddleware(h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(logger)(h)

	return h
}
