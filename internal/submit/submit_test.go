package submit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

// countingCall records when each attempt was made and returns the scripted outcomes in order.
type countingCall struct {
	mu       sync.Mutex
	calls    []time.Time
	outcomes []error
	data     json.RawMessage
}

func (c *countingCall) call(ctx context.Context) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.calls)
	c.calls = append(c.calls, time.Now())
	if n < len(c.outcomes) && c.outcomes[n] != nil {
		return nil, c.outcomes[n]
	}
	return c.data, nil
}

func (c *countingCall) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func failing(n int) []error {
	out := make([]error, n)
	for i := range out {
		out[i] = errBackend
	}
	return out
}

func TestPredefinedStrategies(t *testing.T) {
	assert.Equal(t, 1, SingleAttempt.Attempts)
	assert.Equal(t, Swallow, SingleAttempt.OnExhausted)

	assert.Equal(t, 3, RetryThenPropagate.Attempts)
	assert.Equal(t, 2*time.Second, RetryThenPropagate.Delay)
	assert.Equal(t, Propagate, RetryThenPropagate.OnExhausted)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"single", SingleAttempt, false},
		{"retry", RetryThenPropagate, false},
		{"", Strategy{}, true},
		{"RETRY", Strategy{}, true},
		{"forever", Strategy{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunSuccessPassesPayloadThrough(t *testing.T) {
	payload := json.RawMessage(`{"profiles":[{"name":"Ada Lovelace"}],"count":1}`)

	for _, s := range []Strategy{SingleAttempt, RetryThenPropagate} {
		t.Run(s.Name, func(t *testing.T) {
			c := &countingCall{data: payload}

			result, err := Run(context.Background(), s, "profiles", c.call)
			require.NoError(t, err)
			assert.Equal(t, 1, c.count())

			success, ok := result.(Success)
			require.True(t, ok, "got %T", result)
			assert.Equal(t, payload, success.Data)
			assert.Equal(t, payload, result.Payload())
		})
	}
}

func TestRunSingleAttemptSwallowsFailure(t *testing.T) {
	c := &countingCall{outcomes: failing(5)}

	result, err := Run(context.Background(), SingleAttempt, "profiles", c.call)
	require.NoError(t, err)
	assert.Equal(t, 1, c.count(), "a failing single attempt must not be retried")

	failure, ok := result.(Failure)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "Failed to fetch profiles", failure.Message)
	assert.JSONEq(t, `{"error":"Failed to fetch profiles"}`, string(result.Payload()))
}

func TestRunRetryPropagatesAfterAllAttempts(t *testing.T) {
	s := Strategy{Name: "retry", Attempts: 3, Delay: 20 * time.Millisecond, OnExhausted: Propagate}
	c := &countingCall{outcomes: failing(5)}

	result, err := Run(context.Background(), s, "comments", c.call)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, 3, c.count())

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "comments", exhausted.Resource)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errBackend, "the last attempt's error is kept")

	for i := 1; i < len(c.calls); i++ {
		gap := c.calls[i].Sub(c.calls[i-1])
		assert.GreaterOrEqual(t, gap, s.Delay, "attempt %d followed attempt %d after %v", i+1, i, gap)
	}
}

func TestRunRetrySucceedsOnLaterAttempt(t *testing.T) {
	s := Strategy{Name: "retry", Attempts: 3, Delay: time.Millisecond, OnExhausted: Propagate}
	c := &countingCall{
		outcomes: []error{errBackend, nil},
		data:     json.RawMessage(`{"comments":[]}`),
	}

	result, err := Run(context.Background(), s, "comments", c.call)
	require.NoError(t, err)
	assert.Equal(t, 2, c.count())
	assert.Equal(t, Success{Data: json.RawMessage(`{"comments":[]}`)}, result)
}

func TestRunRetryWithSwallowReturnsFailure(t *testing.T) {
	s := Strategy{Name: "retry-quiet", Attempts: 2, Delay: time.Millisecond, OnExhausted: Swallow}
	c := &countingCall{outcomes: failing(2)}

	result, err := Run(context.Background(), s, "comments", c.call)
	require.NoError(t, err)
	assert.Equal(t, 2, c.count())
	assert.Equal(t, Failure{Message: "Failed to fetch comments"}, result)
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	s := Strategy{Name: "retry", Attempts: 3, Delay: time.Minute, OnExhausted: Propagate}

	ctx, cancel := context.WithCancel(context.Background())
	c := &countingCall{outcomes: failing(3)}

	done := make(chan struct{})
	var (
		result Result
		err    error
	)
	go func() {
		defer close(done)
		result, err = Run(ctx, s, "comments", c.call)
	}()

	require.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the context was canceled")
	}

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, c.count())
}

func TestRunCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &countingCall{}
	_, err := Run(ctx, SingleAttempt, "profiles", c.call)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.count())
}

func TestRunRejectsInvalidStrategy(t *testing.T) {
	tests := []struct {
		name string
		s    Strategy
	}{
		{"no attempts", Strategy{Name: "none", Attempts: 0}},
		{"negative delay", Strategy{Name: "neg", Attempts: 2, Delay: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &countingCall{}
			_, err := Run(context.Background(), tt.s, "profiles", c.call)
			require.Error(t, err)
			assert.Zero(t, c.count())
		})
	}
}

func TestSuccessPayloadEmpty(t *testing.T) {
	assert.Equal(t, json.RawMessage("null"), Success{}.Payload())
}

func TestFailurePayloadEscapesMessage(t *testing.T) {
	f := Failure{Message: `Failed to fetch "profiles"`}

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(f.Payload(), &decoded))
	assert.Equal(t, map[string]string{"error": `Failed to fetch "profiles"`}, decoded)
}

func TestStrategyBudget(t *testing.T) {
	tests := []struct {
		name       string
		s          Strategy
		perAttempt time.Duration
		want       time.Duration
	}{
		{"single attempt", SingleAttempt, 2 * time.Minute, 2 * time.Minute},
		{"retry then propagate", RetryThenPropagate, 2 * time.Minute, 6*time.Minute + 4*time.Second},
		{"no attempts", Strategy{Name: "none"}, time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.Budget(tt.perAttempt))
		})
	}
}
