// Package gateway is the HTTP boundary to the answering service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pigeonic/banglachat/internal/chat"
)

// FallbackAnswer replaces the answer whenever the service cannot be reached
// or replies with something unusable.
const FallbackAnswer = "দুঃখিত, সার্ভারের সাথে সংযোগ স্থাপন করা সম্ভব হয়নি। দয়া করে কিছুক্ষণ পর আবার চেষ্টা করুন।"

// DefaultTimeout bounds a single exchange when no timeout is configured.
const DefaultTimeout = 60 * time.Second

const maxBodyBytes = 1 << 20

// Result describes one exchange in full. Ask collapses it to the answer.
type Result struct {
	Response   chat.Response
	Fallback   bool
	StatusCode int
	Latency    time.Duration
	Err        error
}

// Client posts queries to {baseURL}/chat.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, including its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-exchange timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/chat",
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Ask implements chat.Asker. It never returns an error: every failure is
// folded into a response carrying FallbackAnswer.
func (c *Client) Ask(ctx context.Context, req chat.Request) (*chat.Response, error) {
	res := c.Do(ctx, req)
	return &res.Response, nil
}

// Do performs one exchange and reports how it went.
func (c *Client) Do(ctx context.Context, req chat.Request) Result {
	start := time.Now()
	res := c.do(ctx, req)
	res.Latency = time.Since(start)

	if res.Err != nil {
		log.Warn().Err(res.Err).
			Int("status", res.StatusCode).
			Dur("latency", res.Latency).
			Msg("answering service unavailable, using fallback")
		res.Fallback = true
		res.Response = chat.Response{Answer: FallbackAnswer}
	}
	return res
}

func (c *Client) do(ctx context.Context, req chat.Request) Result {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{Err: fmt.Errorf("post %s: %w", c.endpoint, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Result{StatusCode: resp.StatusCode, Err: &StatusError{Code: resp.StatusCode}}
	}

	var out chat.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return Result{StatusCode: resp.StatusCode, Response: out}
}

// StatusError reports a non-2xx reply.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}
