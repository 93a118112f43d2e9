package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-resty/resty/v2"
	servertiming "github.com/mitchellh/go-server-timing"

	"github.com/linkedin-scraper/scraper-ui/internal/logger"
)

// RequestIDHeader carries the UI request id to the backend so both sides' logs can be correlated.
const RequestIDHeader = "X-Request-Id"

type callStateKey struct{}

// callState follows one backend call from the request interceptor to the
// response or error interceptor.
type callState struct {
	path   string // as given by the caller; resty later rewrites req.URL to the full URL
	start  time.Time
	timing *servertiming.Metric
	done   bool
}

func (s *callState) finish() time.Duration {
	if s.done {
		return 0
	}
	s.done = true
	if s.timing != nil {
		s.timing.Stop()
	}
	return time.Since(s.start)
}

func stateFromContext(ctx context.Context) *callState {
	if s, ok := ctx.Value(callStateKey{}).(*callState); ok {
		return s
	}
	return &callState{start: time.Now(), path: "unknown"}
}

// log returns the request-scoped logger when the call is made while serving a
// page, otherwise the client's own logger.
func (c *Client) log(ctx context.Context) *slog.Logger {
	if l, ok := logger.RequestLoggerFromContext(ctx); ok {
		return l.With(slog.String("component", "backend"))
	}
	return c.logger.With(slog.String("component", "backend"))
}

// onBeforeRequest is the request interceptor. Requests pass through unchanged;
// no credentials are added.
func (c *Client) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	state := &callState{start: time.Now(), path: req.URL}
	if h := servertiming.FromContext(ctx); h != nil {
		state.timing = h.NewMetric("backend").WithDesc(req.Method + " " + state.path).Start()
	}
	req.SetContext(context.WithValue(ctx, callStateKey{}, state))

	if requestID := middleware.GetReqID(ctx); requestID != "" {
		req.SetHeader(RequestIDHeader, requestID)
	}

	c.log(ctx).Debug("backend request",
		slog.String("method", req.Method),
		slog.String("path", req.URL),
	)
	return nil
}

// onAfterResponse is the response interceptor. Success responses pass through
// for the caller to unwrap; anything else is rejected with an *Error.
func (c *Client) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	state := stateFromContext(res.Request.Context())
	duration := state.finish()

	if res.IsSuccess() {
		c.metrics.ObserveBackend(state.path, "success", duration)
		c.log(res.Request.Context()).Debug("backend response",
			slog.String("method", res.Request.Method),
			slog.String("path", state.path),
			slog.Int("status", res.StatusCode()),
			slog.Duration("duration", duration),
			slog.Int64("bytes", res.Size()),
		)
		return nil
	}

	c.metrics.ObserveBackend(state.path, "status_error", duration)
	return newStatusError(res, state.path)
}

// onError is the error interceptor: every failed call is logged here, then the
// error continues to the caller unchanged.
func (c *Client) onError(req *resty.Request, err error) {
	ctx := req.Context()
	state := stateFromContext(ctx)

	be := asError(req.Method, state.path, err)
	if be.Kind == KindTransport {
		c.metrics.ObserveBackend(state.path, "transport_error", state.finish())
	}

	attrs := []any{
		slog.String("method", req.Method),
		slog.String("path", state.path),
		slog.String("kind", be.Kind.String()),
		slog.String("error", be.Error()),
	}
	if be.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status", be.StatusCode))
	}
	if be.Timeout() {
		attrs = append(attrs, slog.Bool("timeout", true))
	}
	if errors.Is(err, context.Canceled) {
		c.log(ctx).Warn("backend request canceled", attrs...)
		return
	}
	c.log(ctx).Error("backend request failed", attrs...)
}

// restyLogger routes resty's own diagnostics into slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}
