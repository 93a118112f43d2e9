package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/linkedin-scraper/scraper-ui/internal/logger"
)

// ReadinessTimeout bounds the backend ping made by the readiness check.
const ReadinessTimeout = 5 * time.Second

// HandleLiveness reports that the UI server is running.
func (h *HandlerService) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleReadiness reports whether the backend answers.
func (h *HandlerService) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := h.Backend.Ping(ctx); err != nil {
		logger.ContextRequestLogger(r.Context()).Warn("Backend not ready", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
