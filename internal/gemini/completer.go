// Package gemini requests one completion per conversational turn from the
// hosted generative model, with bounded retry on rate-limit rejections.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talentscout/screener/internal/reliability"
)

// ErrRateLimited marks a completion abandoned after the retry budget was
// spent on rate-limit rejections. The controller degrades the turn to a
// user-facing message instead of failing it.
var ErrRateLimited = errors.New("gemini: rate limited after retries")

// Completer produces one completion for a rendered prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Backend() string
}

// Config controls backend construction and the retry policy.
type Config struct {
	// Mode is one of auto, gemini, mock.
	Mode   string
	APIKey string
	Model  string

	Temperature     float32
	MaxOutputTokens int32

	// MaxAttempts bounds rate-limit retries; sleeps between attempts grow
	// as BackoffBase * 2^attempt.
	MaxAttempts int
	BackoffBase time.Duration
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.3
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 500
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = time.Second
	}
	return c
}

// New selects a backend by mode and wraps it in the retry policy.
func New(ctx context.Context, cfg Config) (Completer, error) {
	cfg = cfg.withDefaults()
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	var backend Completer
	switch mode {
	case "gemini":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("completer mode gemini requires an API key")
		}
		g, err := newGenAICompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend = g
	case "mock":
		backend = NewMockCompleter()
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			g, err := newGenAICompleter(ctx, cfg)
			if err != nil {
				return nil, err
			}
			backend = g
		} else {
			backend = NewMockCompleter()
		}
	default:
		return nil, fmt.Errorf("unsupported completer mode %q", cfg.Mode)
	}

	return withRetry(backend, cfg.MaxAttempts, cfg.BackoffBase), nil
}

// retryCompleter retries rate-limit rejections with exponential backoff and
// returns any other failure immediately.
type retryCompleter struct {
	inner       Completer
	maxAttempts int
	base        time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func withRetry(inner Completer, maxAttempts int, base time.Duration) *retryCompleter {
	return &retryCompleter{
		inner:       inner,
		maxAttempts: maxAttempts,
		base:        base,
		sleep:       sleepCtx,
	}
}

func (r *retryCompleter) Backend() string { return r.inner.Backend() }

func (r *retryCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		text, err := r.inner.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if !reliability.IsRateLimit(err) {
			return "", err
		}
		lastErr = err
		if attempt == r.maxAttempts-1 {
			break
		}
		wait := reliability.ExponentialBackoff(attempt, r.base, 30*time.Second)
		if err := r.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %v", ErrRateLimited, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
