package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/klauspost/compress/gzhttp"
	servertiming "github.com/mitchellh/go-server-timing"
	"golang.org/x/time/rate"

	"github.com/linkedin-scraper/scraper-ui/internal/logger"
)

// MaxRequestSizeHeader advertises the request body limit to clients.
const MaxRequestSizeHeader = "X-Max-Request-Size"

// ErrorResponder writes the response for a request the middleware rejects.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, status int, message string)

// PlainError writes message as text/plain. Used when no ErrorResponder is given.
func PlainError(w http.ResponseWriter, r *http.Request, status int, message string) {
	http.Error(w, message, status)
}

func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			// still in widespread use
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// for legacy support
			w.Header().Set("X-Frame-Options", "DENY")

			w.Header().Set("Content-Security-Policy", "default-src 'self'; form-action 'self'; frame-ancestors 'none';")

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if environment == "prod" || environment == "staging" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimit limits the size of request bodies and adds the limit as a header for client awareness
func RequestSizeLimit(maxBytes int64, respond ErrorResponder) func(http.Handler) http.Handler {
	if respond == nil {
		respond = PlainError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			w.Header().Set(MaxRequestSizeHeader, strconv.FormatInt(maxBytes, 10))

			// Check Content-Length header first (if present)
			if r.ContentLength > maxBytes {
				reqLogger := logger.ContextRequestLogger(r.Context())

				reqLogger.Warn("Request size limit exceeded",
					slog.String("component", "RequestSizeLimit"),
					slog.Int64("content_length", r.ContentLength),
					slog.Int64("max_bytes", maxBytes),
				)

				// Add context for final request log
				logger.ContextWithLogAttrs(r.Context(),
					slog.Int64("content_length", r.ContentLength),
					slog.Int64("max_bytes", maxBytes),
				)

				respond(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytes))
				return
			}

			// Wrap the body reader to enforce the limit (bodies without a Content-Length fail when the handler parses the form)
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per second. If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond int32, burst int32, respond ErrorResponder) func(http.Handler) http.Handler {
	// If rate limiting is disabled, return a no-op middleware
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	if respond == nil {
		respond = PlainError
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				reqLogger := logger.ContextRequestLogger(r.Context())

				reqLogger.Warn("Rate limit exceeded",
					slog.String("component", "RateLimit"),
					slog.String("remote_addr", r.RemoteAddr),
				)

				logger.ContextWithLogAttrs(r.Context(),
					slog.String("remote_addr", r.RemoteAddr),
				)

				respond(w, r, http.StatusTooManyRequests, "Too many requests. Please try again in a few moments.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ServerTiming adds a Server-Timing header; the backend client records one
// metric per call made while serving the request.
func ServerTiming(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}

// Compress gzips responses for clients that accept it.
func Compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
