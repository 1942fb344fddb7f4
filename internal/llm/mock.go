package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Scripted is one canned reply for Mock.
type Scripted struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Mock replays scripted replies in order and records every request. Once
// the script runs out it either fails with UnavailableError or, when Echo
// is set, answers with an instance of the requested schema built from the
// user's text.
type Mock struct {
	Echo bool

	mu     sync.Mutex
	script []Scripted
	calls  []Request
}

// NewMock returns a Mock with the given script.
func NewMock(script ...Scripted) *Mock {
	return &Mock{script: script}
}

func (m *Mock) Name() string  { return "mock" }
func (m *Mock) Model() string { return "mock" }

func (m *Mock) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if len(m.script) == 0 {
		if !m.Echo {
			return nil, &UnavailableError{}
		}
		return &Response{Content: echo(req), Model: "mock", Stop: StopEnd}, nil
	}

	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", Stop: StopEnd}, nil
}

// Push appends replies to the script.
func (m *Mock) Push(s ...Scripted) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, s...)
}

// Calls returns the requests seen so far.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// echo fills every string property of the schema with the user's text and
// leaves arrays empty.
func echo(req Request) json.RawMessage {
	text := req.UserText()
	if req.Schema == nil {
		b, _ := json.Marshal(text)
		return b
	}
	obj := map[string]any{}
	props, _ := req.Schema.Definition["properties"].(map[string]any)
	for name, v := range props {
		def, _ := v.(map[string]any)
		switch def["type"] {
		case "string":
			obj[name] = text
		case "array":
			obj[name] = []any{}
		case "boolean":
			obj[name] = false
		case "number", "integer":
			obj[name] = 0
		}
	}
	b, _ := json.Marshal(obj)
	return b
}
