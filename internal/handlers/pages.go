package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/linkedin-scraper/scraper-ui/internal/backend"
	"github.com/linkedin-scraper/scraper-ui/internal/logger"
	"github.com/linkedin-scraper/scraper-ui/internal/submit"
	"github.com/linkedin-scraper/scraper-ui/internal/views"
)

const cookiesPlaceholder = "Enter your LinkedIn cookies"

// formPage describes one of the submit pages.
type formPage struct {
	path        string
	title       string
	heading     string
	submitLabel string
	resource    string // used in the failure message: "Failed to fetch <resource>"
	fields      []views.Field
	strategy    submit.Strategy
	call        func(ctx context.Context, form url.Values) (json.RawMessage, error)
}

func (h *HandlerService) profilesPage() formPage {
	return formPage{
		path:        "/profiles",
		title:       "Profiles",
		heading:     "LinkedIn Profile Scraper",
		submitLabel: "Search Profiles",
		resource:    "profiles",
		fields: []views.Field{
			{Name: "query", Placeholder: "Enter your query"},
			{Name: "cookies", Placeholder: cookiesPlaceholder},
		},
		strategy: h.ProfilesStrategy,
		call: func(ctx context.Context, form url.Values) (json.RawMessage, error) {
			return h.Backend.SearchProfiles(ctx, backend.SearchRequest{
				Query:   form.Get("query"),
				Cookies: form.Get("cookies"),
			})
		},
	}
}

func (h *HandlerService) commentsPage() formPage {
	return formPage{
		path:        "/comments",
		title:       "Comments",
		heading:     "LinkedIn Comment Scraper",
		submitLabel: "Scrape Comments",
		resource:    "comments",
		fields: []views.Field{
			{Name: "url", Placeholder: "Enter LinkedIn post URL"},
			{Name: "cookies", Placeholder: cookiesPlaceholder},
		},
		strategy: h.CommentsStrategy,
		call: func(ctx context.Context, form url.Values) (json.RawMessage, error) {
			return h.Backend.ScrapeComments(ctx, backend.CommentsRequest{
				URL:     form.Get("url"),
				Cookies: form.Get("cookies"),
			})
		},
	}
}

// view builds the form view, echoing any submitted values.
func (p formPage) view(form url.Values, result submit.Result) views.FormView {
	fields := make([]views.Field, len(p.fields))
	for i, f := range p.fields {
		f.Value = form.Get(f.Name)
		fields[i] = f
	}
	return views.FormView{
		Heading:     p.heading,
		Action:      p.path,
		Fields:      fields,
		SubmitLabel: p.submitLabel,
		Result:      result,
	}
}

func (h *HandlerService) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, h.profilesPage())
}

func (h *HandlerService) HandleProfilesPost(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, h.profilesPage())
}

func (h *HandlerService) HandleComments(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, h.commentsPage())
}

func (h *HandlerService) HandleCommentsPost(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, h.commentsPage())
}

func (h *HandlerService) showForm(w http.ResponseWriter, r *http.Request, p formPage) {
	h.render(w, r, http.StatusOK, p.title, views.FormPage(p.view(nil, nil)))
}

// submitForm forwards the form to the backend and renders the outcome.
// Fields are passed on exactly as typed; empty values are submitted as "".
func (h *HandlerService) submitForm(w http.ResponseWriter, r *http.Request, p formPage) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	if err := r.ParseForm(); err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		reqLogger.Warn("Failed to parse form", slog.String("error", err.Error()))
		h.RenderError(w, r, status, "The form could not be read. Please try again.")
		return
	}
	form := r.PostForm

	logger.ContextWithLogAttrs(r.Context(),
		slog.String("resource", p.resource),
		slog.String("strategy", p.strategy.Name),
	)

	result, err := submit.Run(r.Context(), p.strategy, p.resource, func(ctx context.Context) (json.RawMessage, error) {
		return p.call(ctx, form)
	})
	if err != nil {
		h.submitFailed(w, r, p, err)
		return
	}

	outcome := "success"
	if _, failed := result.(submit.Failure); failed {
		outcome = "failure"
	}
	h.Metrics.ObserveSubmission(p.resource, p.strategy.Name, outcome)

	h.render(w, r, http.StatusOK, p.title, views.FormPage(p.view(form, result)))
}

// submitFailed handles errors that the strategy did not turn into a Failure result.
func (h *HandlerService) submitFailed(w http.ResponseWriter, r *http.Request, p formPage, err error) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	var exhausted *submit.ExhaustedError
	switch {
	// checked first: the last attempt's error may itself be a timeout
	case errors.As(err, &exhausted):
		h.Metrics.ObserveSubmission(p.resource, p.strategy.Name, "exhausted")
		reqLogger.Error("Submission failed after all attempts",
			slog.Int("attempts", exhausted.Attempts),
			slog.String("error", err.Error()),
		)
		h.RenderError(w, r, http.StatusBadGateway,
			fmt.Sprintf("The backend did not respond successfully after %d attempts.", exhausted.Attempts))
	case errors.Is(err, context.Canceled):
		// the client went away; there is nobody to render for
		h.Metrics.ObserveSubmission(p.resource, p.strategy.Name, "canceled")
		reqLogger.Info("Submission canceled", slog.String("error", err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		// the Timeout middleware writes the 504
		h.Metrics.ObserveSubmission(p.resource, p.strategy.Name, "timeout")
		reqLogger.Error("Submission timed out", slog.String("error", err.Error()))
	default:
		reqLogger.Error("Submission failed", slog.String("error", err.Error()))
		h.RenderError(w, r, http.StatusInternalServerError, "An error occurred. Please try again later.")
	}
}
