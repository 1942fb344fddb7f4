package llm

import (
	"context"
	"testing"
)

func TestNew_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	p, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*Retrying); !ok {
		t.Fatalf("provider = %T, want *Retrying", p)
	}
	if p.Name() != "mock" {
		t.Errorf("name = %s", p.Name())
	}
	resp, err := p.Generate(context.Background(), Request{Turns: []Turn{{Role: RoleUser, Text: "x"}}})
	if err != nil || string(resp.Content) != `"x"` {
		t.Errorf("resp = %v, err = %v", resp, err)
	}
}

func TestNew_Providers(t *testing.T) {
	for _, name := range []string{"anthropic", "openai", "openrouter", "gemini"} {
		cfg := DefaultConfig()
		cfg.Provider = name
		cfg.Anthropic.APIKey, cfg.OpenAI.APIKey, cfg.OpenRouter.APIKey, cfg.Gemini.APIKey = "k", "k", "k", "k"

		p, err := New(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("%s: name = %s", name, p.Name())
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "nope"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
