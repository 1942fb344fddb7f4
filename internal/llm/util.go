package llm

import (
	"encoding/json"
	"strings"
)

const defaultMaxTokens = 1024

func alias(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}

// contentOf returns structured output as-is, minus any markdown fence, and
// wraps free text as a JSON string.
func contentOf(text string, structured bool) json.RawMessage {
	if !structured {
		b, _ := json.Marshal(text)
		return b
	}
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	}
	return json.RawMessage(strings.TrimSpace(t))
}
