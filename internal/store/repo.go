package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	Topic string    // exact topic label
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// ExchangeEventData captures one round trip to the answering service.
type ExchangeEventData struct {
	Query        string
	Topic        string
	Difficulty   string
	Answer       string
	Fallback     bool
	StatusCode   int
	LatencyMs    int64
	ErrorMessage string
}

// ExchangeEvent is a stored exchange.
type ExchangeEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ExchangeEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendExchange records a gateway exchange.
	AppendExchange(ctx context.Context, data ExchangeEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// Exchanges returns exchanges newest first.
	Exchanges(ctx context.Context, opts QueryOpts) ([]ExchangeEvent, error)

	// Exchange returns a single exchange, or nil if none has that ID.
	Exchange(ctx context.Context, id int) (*ExchangeEvent, error)

	// LLMRequests returns LLM calls newest first.
	LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}
