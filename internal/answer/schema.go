package answer

import "github.com/pigeonic/banglachat/internal/llm"

// Schema is the structured reply the model must produce.
var Schema = &llm.Schema{
	Name:        "chat-answer",
	Description: "A Bengali answer to the user's question with optional sources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "The answer, written in Bengali",
			},
			"sources": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Zero or more references (URLs or titles) the answer relies on",
			},
		},
		"required":             []any{"answer", "sources"},
		"additionalProperties": false,
	},
}
