package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestContextRequestLoggerFallsBackToDefault(t *testing.T) {
	_, ok := RequestLoggerFromContext(context.Background())
	assert.False(t, ok)
	assert.Same(t, slog.Default(), ContextRequestLogger(context.Background()))

	l := Discard()
	ctx := ContextWithRequestLogger(context.Background(), l)
	assert.Same(t, l, ContextRequestLogger(ctx))
}

// logLines decodes one JSON object per line.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(RequestLogging(log))
	router.Post("/comments", func(w http.ResponseWriter, r *http.Request) {
		ContextRequestLogger(r.Context()).Info("submission attempt failed")
		ContextWithLogAttrs(r.Context(), slog.String("resource", "comments"))
		w.WriteHeader(http.StatusBadGateway)
	})
	router.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Zero(t, buf.Len(), "health checks are not logged")

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/comments", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)

	attempt, completed := lines[0], lines[1]
	assert.Equal(t, "submission attempt failed", attempt["msg"])
	assert.NotEmpty(t, attempt["request_id"])

	assert.Equal(t, "request completed", completed["msg"])
	assert.Equal(t, "ERROR", completed["level"])
	assert.Equal(t, float64(http.StatusBadGateway), completed["status"])
	assert.Equal(t, "comments", completed["resource"])
	assert.Equal(t, "ui", completed["component"])
	assert.Equal(t, attempt["request_id"], completed["request_id"])
}

func TestRequestLoggingLevels(t *testing.T) {
	tests := []struct {
		path      string
		status    int
		wantLevel string
		component string
	}{
		{"/", http.StatusOK, "INFO", "ui"},
		{"/static/styles.css", http.StatusNotFound, "WARN", "static"},
		{"/metrics", http.StatusInternalServerError, "ERROR", "metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			lines := logLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.wantLevel, lines[0]["level"])
			assert.Equal(t, tt.component, lines[0]["component"])
		})
	}
}
