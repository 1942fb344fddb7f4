// Package answer produces replies to chat queries with a language model.
// It backs the local answering service started by `banglachat serve`.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pigeonic/banglachat/internal/catalog"
	"github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/llm"
)

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("query is empty")

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the server.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}

// Service answers chat requests.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an answering service on top of provider.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type answerOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Answer generates a reply for req. Topic may be a catalog label or ID and
// defaults to the general topic; difficulty defaults to easy. Unknown values
// are errors.
func (s *Service) Answer(ctx context.Context, req chat.Request) (*chat.Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	topic, level, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "chat-answer"), llm.Request{
		System:      buildSystemPrompt(topic, level),
		Turns:       []llm.Turn{{Role: llm.RoleUser, Text: query}},
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("answer generation: %w", err)
	}

	var out answerOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse answer: %w", err)
	}

	var sources []string
	for _, src := range out.Sources {
		if src = strings.TrimSpace(src); src != "" {
			sources = append(sources, src)
		}
	}
	return &chat.Response{Answer: strings.TrimSpace(out.Answer), Sources: sources}, nil
}

// Ask implements chat.Asker so the service can be used in-process.
func (s *Service) Ask(ctx context.Context, req chat.Request) (*chat.Response, error) {
	return s.Answer(ctx, req)
}

// Normalize resolves the topic and difficulty of req, applying defaults for
// empty fields.
func Normalize(req chat.Request) (catalog.Topic, catalog.Difficulty, error) {
	label := req.Topic
	if label == "" {
		label = catalog.DefaultTopicLabel
	}
	topic, err := catalog.ResolveTopic(label)
	if err != nil {
		return catalog.Topic{}, "", err
	}

	level := catalog.Easy
	if req.Difficulty != "" {
		if level, err = catalog.ParseDifficulty(req.Difficulty); err != nil {
			return catalog.Topic{}, "", err
		}
	}
	return topic, level, nil
}
