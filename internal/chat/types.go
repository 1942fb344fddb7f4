// Package chat holds the conversational session: the message thread and the
// send/receive lifecycle against the answering service.
package chat

import (
	"context"
	"time"
)

// Role is the message author.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one entry in the thread. Messages are never edited or removed.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
}

// IsAI reports whether the message was produced by the assistant.
func (m Message) IsAI() bool {
	return m.Role == RoleAI
}

// Request is the wire body sent to the answering service.
type Request struct {
	Query      string `json:"query"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// Response is the wire body returned by the answering service.
type Response struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// Asker answers a single query. Implementations may fold transport failures
// into the returned Response; a returned error is shown as the generic
// error fallback.
type Asker interface {
	Ask(ctx context.Context, req Request) (*Response, error)
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(ctx context.Context, req Request) (*Response, error)

func (f AskerFunc) Ask(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Fixed user-visible texts.
const (
	WelcomeText  = "স্বাগতম! আমি আপনার বাংলা এআই অ্যাসিস্ট্যান্ট। শিক্ষার বিষয়, স্বাস্থ্য, ভ্রমণ বা অন্য যেকোনো বিষয়ে আমাকে প্রশ্ন করতে পারেন।"
	NoAnswerText = "দুঃখিত, কোনো উত্তর পাওয়া যায়নি।"
	ErrorText    = "দুঃখিত, একটি ত্রুটি হয়েছে।"
)
