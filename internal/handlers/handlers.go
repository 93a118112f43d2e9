// Package handlers serves the UI pages.
//
// Form pages keep no state between requests: a POST renders the form again
// with the submitted values and the result slot filled in.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/linkedin-scraper/scraper-ui/internal/backend"
	"github.com/linkedin-scraper/scraper-ui/internal/logger"
	"github.com/linkedin-scraper/scraper-ui/internal/metrics"
	"github.com/linkedin-scraper/scraper-ui/internal/submit"
	"github.com/linkedin-scraper/scraper-ui/internal/views"
)

// Backend is the part of the backend client the pages use.
type Backend interface {
	SearchProfiles(ctx context.Context, req backend.SearchRequest) (json.RawMessage, error)
	ScrapeComments(ctx context.Context, req backend.CommentsRequest) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

type HandlerService struct {
	Backend          Backend
	Metrics          *metrics.Metrics
	ProfilesStrategy submit.Strategy
	CommentsStrategy submit.Strategy

	// Now is used for the footer year; defaults to time.Now.
	Now func() time.Time
}

func (h *HandlerService) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// render writes content inside the site layout.
func (h *HandlerService) render(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	page := views.Layout(views.LayoutData{Title: title, Year: h.now().Year()}, content)
	if err := page.Render(r.Context(), w); err != nil {
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("Failed to render page",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
	}
}

// RenderError shows message on the layout error page.
func (h *HandlerService) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, http.StatusText(status), views.ErrorPage(status, message))
}
