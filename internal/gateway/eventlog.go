package gateway

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/store"
)

// LoggedClient records every exchange to the exchange log.
type LoggedClient struct {
	inner *Client
	repo  store.EventRepo
}

// WithEventLog wraps c so each exchange is appended to repo. A failed write
// is logged and otherwise ignored.
func WithEventLog(c *Client, repo store.EventRepo) *LoggedClient {
	return &LoggedClient{inner: c, repo: repo}
}

func (l *LoggedClient) Ask(ctx context.Context, req chat.Request) (*chat.Response, error) {
	res := l.inner.Do(ctx, req)

	data := store.ExchangeEventData{
		Query:      req.Query,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Answer:     res.Response.Answer,
		Fallback:   res.Fallback,
		StatusCode: res.StatusCode,
		LatencyMs:  res.Latency.Milliseconds(),
	}
	if res.Err != nil {
		data.ErrorMessage = res.Err.Error()
	}

	// Logging must not fail the exchange, and the request context may
	// already be done.
	if err := l.repo.AppendExchange(context.WithoutCancel(ctx), data); err != nil {
		log.Error().Err(err).Msg("record exchange")
	}

	return &res.Response, nil
}
