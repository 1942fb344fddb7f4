// Package llm talks to hosted language models. Every provider returns JSON
// content, validated against a schema when the request carries one.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates one completion per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider key, e.g. "anthropic".
	Name() string

	// Model is the model ID requests are sent to.
	Model() string
}

// Role is the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation sent to the model.
type Turn struct {
	Role Role
	Text string
}

// Schema is a named JSON Schema the response must satisfy.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is a single generation request.
type Request struct {
	System      string
	Turns       []Turn
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// UserText returns the text of the last user turn.
func (r Request) UserText() string {
	for i := len(r.Turns) - 1; i >= 0; i-- {
		if r.Turns[i].Role == RoleUser {
			return r.Turns[i].Text
		}
	}
	return ""
}

// Stop says why generation ended.
type Stop string

const (
	StopEnd       Stop = "end"
	StopMaxTokens Stop = "max_tokens"
)

// Usage is the token count of one request.
type Usage struct {
	Input  int
	Output int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.Input + u.Output }

// Response is a completed generation.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	Stop    Stop
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &InvalidOutputError{Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// finish applies the checks shared by every provider: truncation and schema
// validation.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.Stop == StopMaxTokens && req.Schema != nil {
		return nil, &TruncatedError{Content: resp.Content}
	}
	if err := req.Schema.Validate(resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}

type purposeKey struct{}

// WithPurpose labels requests made with ctx in the LLM request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unspecified".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unspecified"
}
