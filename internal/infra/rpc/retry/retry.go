// Package retry implements the per-call retry policy used in execution
// environments where no retrying HTTP transport is available underneath
// the JSON-RPC layer.
package retry

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/vietddude/execrpc/internal/infra/rpc/metrics"
)

// Config defines backoff behavior.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig provides sensible defaults.
var DefaultConfig = Config{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// Policy decides how a single logical RPC call is executed. Implementations
// must be safe for concurrent use; the composition root selects one policy
// per client so call bodies never branch on the execution environment.
type Policy interface {
	// Do invokes fn according to the policy. op names the logical
	// operation for logging and metrics.
	Do(ctx context.Context, op string, fn func(ctx context.Context) error) error
}

// Passthrough executes the call exactly once. It is composed into clients
// whose HTTP transport already retries below the JSON-RPC layer.
type Passthrough struct{}

func (Passthrough) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Backoff retries transient failures with exponentially increasing waits,
// doubling from InitialBackoff up to MaxBackoff, no jitter.
type Backoff struct {
	cfg Config
	log *slog.Logger
}

// NewBackoff creates a backoff policy. A zero or negative MaxAttempts
// falls back to DefaultConfig.
func NewBackoff(cfg Config, log *slog.Logger) *Backoff {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultConfig
	}
	if log == nil {
		log = slog.Default()
	}
	return &Backoff{cfg: cfg, log: log}
}

// Do runs fn up to MaxAttempts times. Non-retryable errors and exhaustion
// surface the last observed error unchanged. Context cancellation during a
// wait abandons the loop without further attempts.
func (b *Backoff) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := b.cfg.InitialBackoff
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !ShouldRetry(err) || attempt >= b.cfg.MaxAttempts {
			return lastErr
		}

		b.log.Warn("rpc call failed, backing off",
			"op", op, "attempt", attempt, "backoff", backoff, "error", err)
		metrics.RPCRetriesTotal.WithLabelValues(op).Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, b.cfg.MaxBackoff)
	}
}

// ShouldRetry classifies err as transient. Only rate limiting, timeouts,
// dropped connections and 5xx-class server failures are worth retrying;
// everything else fails fast.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	s := strings.ToLower(err.Error())

	return strings.Contains(s, "rate limit") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection") ||
		(strings.Contains(s, "server") && strings.Contains(s, "50"))
}
