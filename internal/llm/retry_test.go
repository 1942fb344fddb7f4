package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newTestRetrying(p Provider, attempts int) (*Retrying, *[]time.Duration) {
	var slept []time.Duration
	r := WithRetry(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return r, &slept
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	m := NewMock(
		Scripted{Err: &UnavailableError{Err: errors.New("503")}},
		Scripted{Err: &RateLimitError{}},
		Scripted{Content: json.RawMessage(`"ok"`)},
	)
	r, slept := newTestRetrying(m, 3)

	resp, err := r.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `"ok"` {
		t.Errorf("content = %s", resp.Content)
	}
	if len(m.Calls()) != 3 || len(*slept) != 2 {
		t.Errorf("calls = %d, sleeps = %d", len(m.Calls()), len(*slept))
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	m := NewMock()
	r, _ := newTestRetrying(m, 3)

	_, err := r.Generate(context.Background(), Request{})
	var un *UnavailableError
	if !errors.As(err, &un) {
		t.Fatalf("err = %v", err)
	}
	if len(m.Calls()) != 3 {
		t.Errorf("calls = %d, want 3", len(m.Calls()))
	}
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"truncated", &TruncatedError{}},
		{"rejected", &RequestError{Status: 401}},
		{"canceled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock(Scripted{Err: tt.err}, Scripted{Content: json.RawMessage(`"unused"`)})
			r, slept := newTestRetrying(m, 3)

			_, err := r.Generate(context.Background(), Request{})
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if len(m.Calls()) != 1 || len(*slept) != 0 {
				t.Errorf("calls = %d, sleeps = %d", len(m.Calls()), len(*slept))
			}
		})
	}
}

func TestRetry_InvalidOutputRetriedOnce(t *testing.T) {
	m := NewMock(
		Scripted{Err: &InvalidOutputError{Err: errors.New("bad 1")}},
		Scripted{Err: &InvalidOutputError{Err: errors.New("bad 2")}},
		Scripted{Content: json.RawMessage(`"unused"`)},
	)
	r, _ := newTestRetrying(m, 5)

	_, err := r.Generate(context.Background(), Request{})
	var inv *InvalidOutputError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v", err)
	}
	if len(m.Calls()) != 2 {
		t.Errorf("calls = %d, want 2", len(m.Calls()))
	}
}

func TestRetry_StopsWhenContextCanceled(t *testing.T) {
	m := NewMock(Scripted{Err: &UnavailableError{}}, Scripted{Content: json.RawMessage(`"unused"`)})
	r, _ := newTestRetrying(m, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(m.Calls()) != 1 {
		t.Errorf("calls = %d, want 1", len(m.Calls()))
	}
}

func TestRetry_Delay(t *testing.T) {
	r, _ := newTestRetrying(NewMock(), 5)

	if d := r.delay(0, &RateLimitError{RetryAfter: 7 * time.Second}); d != 7*time.Second {
		t.Errorf("Retry-After delay = %v", d)
	}

	for attempt, base := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, time.Second, time.Second} {
		d := r.delay(attempt, &UnavailableError{})
		lo, hi := time.Duration(float64(base)*0.8), time.Duration(float64(base)*1.2)
		if d < lo || d > hi {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, d, lo, hi)
		}
	}
}

func TestSleepCtx(t *testing.T) {
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepCtx = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepCtx on canceled ctx = %v", err)
	}
}
