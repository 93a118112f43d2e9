package logger

import (
	"context"
	"log/slog"
)

type contextKey struct {
	name string
}

var (
	logAttrsKey      = contextKey{"log_attrs"}
	requestLoggerKey = contextKey{"request_logger"}
)

// ContextWithLogAttrs allows handlers to add attributes to the final request log.
//
// The values are appended to a shared slice created by the RequestLogging middleware,
// so the returned context is the one passed in.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if attrPtr, ok := ctx.Value(logAttrsKey).(*[]slog.Attr); ok {
		*attrPtr = append(*attrPtr, attrs...)
		return ctx
	}
	// programming error - this should not happen
	slog.Warn("ContextWithLogAttrs called on context without shared log attributes slice")
	return ctx
}

// ContextLogAttrs returns the attributes collected for the final request log.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if attrPtr, ok := ctx.Value(logAttrsKey).(*[]slog.Attr); ok {
		return *attrPtr
	}
	return nil
}

// ContextWithRequestLogger stores a request-scoped logger in ctx.
func ContextWithRequestLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, logger)
}

// RequestLoggerFromContext reports the request-scoped logger, if one was stored.
func RequestLoggerFromContext(ctx context.Context) (*slog.Logger, bool) {
	logger, ok := ctx.Value(requestLoggerKey).(*slog.Logger)
	return logger, ok
}

// ContextRequestLogger retrieves the request-scoped logger from context.
//
// Log entries made with it include the request_id. Outside of a request
// (background work, tests) the default logger is returned.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := RequestLoggerFromContext(ctx); ok {
		return logger
	}
	return slog.Default()
}
