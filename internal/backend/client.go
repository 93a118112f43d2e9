// Package backend is the HTTP client for the scraping backend.
//
// Every call goes through the same resty client, which carries a fixed timeout
// and JSON headers and installs three hooks:
//
//   - a request interceptor that passes requests through unchanged apart from
//     forwarding the incoming request id,
//   - a response interceptor that turns non-success statuses into an *Error,
//   - an error interceptor that logs every failure before it reaches the caller.
//
// Successful calls return only the response payload.
package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/linkedin-scraper/scraper-ui/internal/logger"
	"github.com/linkedin-scraper/scraper-ui/internal/metrics"
)

// DefaultTimeout applies to every backend call. Scraping runs synchronously
// on the backend, so calls routinely take a minute or more.
const DefaultTimeout = 120 * time.Second

// Backend routes.
const (
	SearchPath   = "/search"
	CommentsPath = "/comments"
	PingPath     = "/"
)

// Client handles communication with the scraping backend
type Client struct {
	http    *resty.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Client)

// WithLogger sets the logger used when no request-scoped logger is in the call's context.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTimeout overrides DefaultTimeout for every call made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	c := &Client{
		http:   client,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client.SetLogger(restyLogger{c.logger})
	client.OnBeforeRequest(c.onBeforeRequest)
	client.OnAfterResponse(c.onAfterResponse)
	client.OnError(c.onError)

	return c
}

// Post sends body as JSON to path and returns the response payload.
//
// The payload is always JSON: an empty body becomes null and a body that is
// not valid JSON is returned as a JSON string.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, asError(http.MethodPost, path, err)
	}

	return payload(res.Body()), nil
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query   string `json:"query"`
	Cookies string `json:"cookies"`
}

// CommentsRequest is the body of POST /comments.
type CommentsRequest struct {
	URL     string `json:"url"`
	Cookies string `json:"cookies"`
}

// SearchProfiles asks the backend to search LinkedIn profiles.
func (c *Client) SearchProfiles(ctx context.Context, req SearchRequest) (json.RawMessage, error) {
	return c.Post(ctx, SearchPath, req)
}

// ScrapeComments asks the backend to scrape the comments of a LinkedIn post.
func (c *Client) ScrapeComments(ctx context.Context, req CommentsRequest) (json.RawMessage, error) {
	return c.Post(ctx, CommentsPath, req)
}

// Ping checks that the backend answers on its root route.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.R().
		SetContext(ctx).
		Get(PingPath)
	if err != nil {
		return asError(http.MethodGet, PingPath, err)
	}
	return nil
}

func payload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	if !gjson.ValidBytes(body) {
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return json.RawMessage("null")
		}
		return quoted
	}

	out := make([]byte, len(body))
	copy(out, body)
	return out
}
