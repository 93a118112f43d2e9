package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Netflix/go-env"

	"github.com/linkedin-scraper/scraper-ui/internal/backend"
	"github.com/linkedin-scraper/scraper-ui/internal/submit"
)

// Config holds the UI server settings. All values come from the environment.
type Config struct {
	Environment  string        `env:"ENVIRONMENT,default=dev"`
	Host         string        `env:"HOST,default=0.0.0.0"`
	Port         int           `env:"PORT,default=3000"`
	LogLevel     string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=7m"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=60s"`

	// BackendURL is the base URL of the scraping backend.
	BackendURL string `env:"BACKEND_URL,default=http://localhost:5000"`

	// CommentsStrategy selects how the comments page submits: "single" or "retry".
	CommentsStrategy string `env:"COMMENTS_STRATEGY,default=single"`

	RateLimitRPS   int32 `env:"RATE_LIMIT_RPS,default=10"`
	RateLimitBurst int32 `env:"RATE_LIMIT_BURST,default=20"`
	MaxFormBytes   int64 `env:"MAX_FORM_BYTES,default=65536"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"perf":    true,
	"prod":    true,
	"staging": true,
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// CommentsSubmitStrategy resolves the configured comments strategy.
func (c *Config) CommentsSubmitStrategy() submit.Strategy {
	s, err := submit.ParseStrategy(c.CommentsStrategy)
	if err != nil {
		// validateConfig rejects unknown names
		return submit.SingleAttempt
	}
	return s
}

// SubmitBudget is the worst-case duration of a page submission: the profiles
// page always uses SingleAttempt, the comments page uses comments.
func SubmitBudget(comments submit.Strategy) time.Duration {
	return max(
		submit.SingleAttempt.Budget(backend.DefaultTimeout),
		comments.Budget(backend.DefaultTimeout),
	)
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}

	if cfg.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}
	u, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid BACKEND_URL %q: %w", cfg.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BACKEND_URL must use http or https, got %q", cfg.BackendURL)
	}

	commentsStrategy, err := submit.ParseStrategy(cfg.CommentsStrategy)
	if err != nil {
		return err
	}

	// a submission must be able to use all of its attempts before the server gives up on the request
	if budget := SubmitBudget(commentsStrategy); cfg.WriteTimeout <= budget {
		return fmt.Errorf("write timeout must be longer than the %q submit budget (%v), got %v", commentsStrategy.Name, budget, cfg.WriteTimeout)
	}

	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1 when rate limiting is enabled, got %d", cfg.RateLimitBurst)
	}

	if cfg.MaxFormBytes <= 0 {
		return fmt.Errorf("max form bytes must be positive, got %d", cfg.MaxFormBytes)
	}

	return nil
}
