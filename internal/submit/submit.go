// Package submit runs a page submission against the backend with a
// configurable number of attempts and a fixed delay between failures.
//
// All pages share Run; they differ only in the Strategy they pass. Two
// strategies are predefined and they end differently when every attempt fails:
// SingleAttempt turns the failure into a Failure result for the page to show,
// RetryThenPropagate returns an *ExhaustedError to the caller.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/linkedin-scraper/scraper-ui/internal/logger"
)

// Exhaustion decides what happens once the last attempt has failed.
type Exhaustion int

const (
	// Swallow converts the final failure into a Failure result.
	Swallow Exhaustion = iota
	// Propagate returns the final failure as an *ExhaustedError.
	Propagate
)

func (e Exhaustion) String() string {
	if e == Propagate {
		return "propagate"
	}
	return "swallow"
}

type Strategy struct {
	Name        string
	Attempts    int
	Delay       time.Duration // wait between a failed attempt and the next one
	OnExhausted Exhaustion
}

var (
	SingleAttempt = Strategy{
		Name:        "single",
		Attempts:    1,
		OnExhausted: Swallow,
	}

	RetryThenPropagate = Strategy{
		Name:        "retry",
		Attempts:    3,
		Delay:       2 * time.Second,
		OnExhausted: Propagate,
	}
)

// ParseStrategy returns the predefined strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case SingleAttempt.Name:
		return SingleAttempt, nil
	case RetryThenPropagate.Name:
		return RetryThenPropagate, nil
	default:
		return Strategy{}, fmt.Errorf("unknown submit strategy %q (valid: %s, %s)", name, SingleAttempt.Name, RetryThenPropagate.Name)
	}
}

func (s Strategy) validate() error {
	if s.Attempts < 1 {
		return fmt.Errorf("strategy %q: attempts must be at least 1, got %d", s.Name, s.Attempts)
	}
	if s.Delay < 0 {
		return fmt.Errorf("strategy %q: delay must not be negative, got %v", s.Name, s.Delay)
	}
	return nil
}

// Budget is the longest a submission can take when every attempt runs for
// perAttempt before failing.
func (s Strategy) Budget(perAttempt time.Duration) time.Duration {
	if s.Attempts < 1 {
		return 0
	}
	return time.Duration(s.Attempts)*perAttempt + time.Duration(s.Attempts-1)*s.Delay
}

func (s Strategy) backoff() retry.Backoff {
	delay := s.Delay
	constant := retry.BackoffFunc(func() (time.Duration, bool) {
		return delay, false
	})
	return retry.WithMaxRetries(uint64(s.Attempts-1), constant)
}

// ErrExhausted matches every *ExhaustedError.
var ErrExhausted = errors.New("submission attempts exhausted")

// ExhaustedError is returned by Run under a Propagate strategy when every attempt failed.
type ExhaustedError struct {
	Resource string
	Attempts int
	Err      error // the last attempt's error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("fetching %s failed after %d attempts: %v", e.Resource, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Err}
}

// Call performs one attempt.
type Call func(ctx context.Context) (json.RawMessage, error)

// Run calls call until it succeeds or the strategy runs out of attempts.
//
// A canceled or expired ctx stops the submission at once; the context error
// is returned whatever the strategy.
func Run(ctx context.Context, s Strategy, resource string, call Call) (Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	log := logger.ContextRequestLogger(ctx).With(
		slog.String("submission_id", uuid.NewString()),
		slog.String("resource", resource),
		slog.String("strategy", s.Name),
	)

	var (
		data    json.RawMessage
		attempt int
	)
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++

		d, err := call(ctx)
		if err != nil {
			log.Warn("submission attempt failed",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", s.Attempts),
				slog.String("error", err.Error()),
			)
			if ctx.Err() != nil {
				return err
			}
			return retry.RetryableError(err)
		}

		data = d
		return nil
	})

	if err == nil {
		log.Debug("submission succeeded", slog.Int("attempts", attempt))
		return Success{Data: data}, nil
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("submitting %s: %w", resource, ctx.Err())
	}

	if s.OnExhausted == Propagate {
		return nil, &ExhaustedError{
			Resource: resource,
			Attempts: attempt,
			Err:      err,
		}
	}

	log.Error("submission failed",
		slog.Int("attempts", attempt),
		slog.String("error", err.Error()),
	)
	return Failure{Message: FailureMessage(resource)}, nil
}
