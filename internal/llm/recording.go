package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pigeonic/banglachat/internal/store"
)

// Recording appends every call to the LLM request log.
type Recording struct {
	inner Provider
	repo  store.EventRepo
}

// WithRecording wraps p so each Generate call is stored in repo.
func WithRecording(p Provider, repo store.EventRepo) *Recording {
	return &Recording{inner: p, repo: repo}
}

func (r *Recording) Name() string  { return r.inner.Name() }
func (r *Recording) Model() string { return r.inner.Model() }

func (r *Recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:  r.inner.Name(),
		Model:     r.inner.Model(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.Input
		ev.OutputTokens = resp.Usage.Output
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if rerr := r.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
		log.Warn().Err(rerr).Msg("record LLM request")
	}
	return resp, err
}
