package handlers

import (
	"context"
	"net/http"
	"slices"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"
	"time"

	"go.uber.org/zap"
)

// HealthHandler reports liveness together with the reachability of its dependencies.
type HealthHandler struct {
	Checks  map[string]ports.Pinger
	Timeout time.Duration
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	failing := []string{}
	for name, p := range h.Checks {
		if err := p.Ping(ctx); err != nil {
			obs.Logger(ctx).Warn("health check failed", zap.String("check", name), zap.Error(err))
			failing = append(failing, name)
		}
	}

	if len(failing) > 0 {
		slices.Sort(failing)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failing": failing})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
