package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		err    error
		expect bool
	}{
		{errors.New("rate limit exceeded"), true},
		{errors.New("429 Too Many Requests: project rate limit"), true},
		{errors.New("request timeout"), true},
		{errors.New("connection reset by peer"), true},
		{errors.New("502 server error"), true},
		{errors.New("internal server error (500)"), true},
		{errors.New("invalid signature"), false},
		{errors.New("execution reverted"), false},
		{errors.New("method not found"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := ShouldRetry(tt.err); got != tt.expect {
			t.Errorf("ShouldRetry(%v) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestBackoff_SucceedsAfterRetries(t *testing.T) {
	cfg := Config{
		MaxAttempts:    3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     time.Second,
	}
	b := NewBackoff(cfg, nil)

	attempts := 0
	start := time.Now()
	err := b.Do(context.Background(), "test_op", func(ctx context.Context) error {
		attempts++
		if attempts <= 2 {
			return errors.New("rate limit exceeded")
		}
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	// Two waits: 10ms then 20ms
	if elapsed < 30*time.Millisecond {
		t.Errorf("expected total wait >= 30ms, elapsed %v", elapsed)
	}
}

func TestBackoff_Exhaustion(t *testing.T) {
	cfg := Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	}
	b := NewBackoff(cfg, nil)

	lastErr := errors.New("connection refused")
	attempts := 0
	err := b.Do(context.Background(), "test_op", func(ctx context.Context) error {
		attempts++
		return lastErr
	})

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	// Exhaustion surfaces the last observed error unchanged
	if !errors.Is(err, lastErr) {
		t.Errorf("expected last error, got %v", err)
	}
}

func TestBackoff_NonRetryableShortCircuit(t *testing.T) {
	b := NewBackoff(Config{MaxAttempts: 5, InitialBackoff: time.Millisecond, MaxBackoff: time.Second}, nil)

	attempts := 0
	err := b.Do(context.Background(), "test_op", func(ctx context.Context) error {
		attempts++
		return errors.New("invalid signature")
	})

	if attempts != 1 {
		t.Errorf("expected 1 attempt for non-retryable error, got %d", attempts)
	}
	if err == nil || err.Error() != "invalid signature" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBackoff_BackoffCappedAtMax(t *testing.T) {
	cfg := Config{
		MaxAttempts:    4,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     15 * time.Millisecond,
	}
	b := NewBackoff(cfg, nil)

	attempts := 0
	start := time.Now()
	_ = b.Do(context.Background(), "test_op", func(ctx context.Context) error {
		attempts++
		return errors.New("timeout")
	})
	elapsed := time.Since(start)

	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
	// Waits: 10ms, then 15ms twice (capped instead of 20ms/40ms)
	if elapsed < 40*time.Millisecond {
		t.Errorf("expected total wait >= 40ms, elapsed %v", elapsed)
	}
	if elapsed > 200*time.Millisecond {
		t.Errorf("backoff not capped, elapsed %v", elapsed)
	}
}

func TestBackoff_ContextCancelledDuringWait(t *testing.T) {
	cfg := Config{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Second,
	}
	b := NewBackoff(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	attempts := 0
	err := b.Do(ctx, "test_op", func(ctx context.Context) error {
		attempts++
		return errors.New("timeout")
	})

	if attempts != 1 {
		t.Errorf("expected backoff wait to be abandoned after 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context error, got %v", err)
	}
}

func TestPassthrough_SingleAttempt(t *testing.T) {
	attempts := 0
	err := Passthrough{}.Do(context.Background(), "test_op", func(ctx context.Context) error {
		attempts++
		return errors.New("rate limit exceeded")
	})

	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
	if err == nil {
		t.Error("expected error to pass through")
	}
}
