package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

// Retrying repeats transient failures with exponential backoff and jitter.
// A malformed reply is retried once; rejected or truncated requests are not
// retried at all.
type Retrying struct {
	inner Provider
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

// WithRetry wraps p with the retry policy in cfg.
func WithRetry(p Provider, cfg RetryConfig) *Retrying {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Retrying{inner: p, cfg: cfg, sleep: sleepCtx}
}

func (r *Retrying) Name() string  { return r.inner.Name() }
func (r *Retrying) Model() string { return r.inner.Model() }

func (r *Retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err           error
		retriedOutput bool
	)
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if serr := r.sleep(ctx, r.delay(attempt-1, err)); serr != nil {
				return nil, serr
			}
		}

		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !Retryable(err) {
			return nil, err
		}

		var bad *InvalidOutputError
		if errors.As(err, &bad) {
			if retriedOutput {
				return nil, err
			}
			retriedOutput = true
		}
		log.Debug().Err(err).Int("attempt", attempt+1).Str("provider", r.Name()).Msg("LLM request failed")
	}
	return nil, err
}

// delay is the wait after the given zero-based failed attempt. A rate limit
// with Retry-After wins over the computed backoff.
func (r *Retrying) delay(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
