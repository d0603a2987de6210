package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ready Pinger
}

// NewHealthHandler builds the probes; a nil ready check always reports ready.
func NewHealthHandler(ready Pinger) *HealthHandler { return &HealthHandler{ready: ready} }

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			logger.Ctx(r.Context()).Warn("readiness check failed", zap.Error(err))
			writeError(w, r, appErr.Wrap(err, appErr.CodeUnavailable, "database unavailable"))
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
