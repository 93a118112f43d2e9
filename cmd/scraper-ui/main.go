package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linkedin-scraper/scraper-ui/internal/config"
	"github.com/linkedin-scraper/scraper-ui/internal/logger"
	"github.com/linkedin-scraper/scraper-ui/internal/server"
	"github.com/linkedin-scraper/scraper-ui/internal/version"
)

func main() {
	cmd := &cobra.Command{
		Use:   "scraper-ui",
		Short: "LinkedIn scraper web user interface",
		Long: `Web UI for the LinkedIn scraper backend.

Search profiles or scrape the comments of a post; the form fields are
forwarded to the backend set by BACKEND_URL and the JSON result is shown.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.Version = version.Get().String()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load UI configuration: %w", err)
	}

	serverLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	slog.SetDefault(serverLogger)

	serverLogger.Info("Starting UI server",
		slog.String("version", version.Get().Version),
		slog.String("environment", cfg.Environment),
	)
	serverLogger.Info("using scraper backend",
		slog.String("backend_url", cfg.BackendURL),
		slog.String("comments_strategy", cfg.CommentsStrategy),
	)

	srv := server.NewServer(cfg, serverLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		serverLogger.Error("UI server error", slog.String("error", err.Error()))
		return err
	}

	serverLogger.Info("UI server shutdown complete")
	return nil
}
