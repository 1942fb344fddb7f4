package llm

import (
	"context"
	"fmt"

	"github.com/pigeonic/banglachat/internal/store"
)

// New builds the configured provider. Calls flow
// caller → retry → recording → provider, so every attempt is recorded.
// repo may be nil to skip recording.
func New(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropic(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAI(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouter(cfg.OpenRouter)
	case "gemini":
		base, err = NewGemini(ctx, cfg.Gemini)
	case "mock":
		base = &Mock{Echo: true}
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if repo != nil {
		base = WithRecording(base, repo)
	}
	return WithRetry(base, cfg.Retry), nil
}
