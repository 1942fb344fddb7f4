package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pigeonic/banglachat/internal/catalog"
)

// ErrUnexpected marks a fault recovered while asking or settling a request.
var ErrUnexpected = errors.New("unexpected fault")

// Session is the single authority over conversation state. It is not safe
// for concurrent use; the UI event loop owns it.
type Session struct {
	messages    []Message
	input       string
	loading     bool
	topic       string
	difficulty  catalog.Difficulty
	listening   bool
	sidebarOpen bool

	now   func() time.Time
	newID func() string
}

// NewSession returns a session seeded with the welcome message.
func NewSession() *Session {
	s := &Session{
		topic:      catalog.DefaultTopicLabel,
		difficulty: catalog.Easy,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	s.messages = []Message{{
		ID:        "welcome",
		Role:      RoleAI,
		Text:      WelcomeText,
		Timestamp: s.now(),
	}}
	return s
}

// Messages returns the thread in display order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the thread.
func (s *Session) Len() int { return len(s.messages) }

// Last returns the newest message.
func (s *Session) Last() Message { return s.messages[len(s.messages)-1] }

func (s *Session) Input() string                  { return s.input }
func (s *Session) Loading() bool                  { return s.loading }
func (s *Session) Topic() string                  { return s.topic }
func (s *Session) Difficulty() catalog.Difficulty { return s.difficulty }
func (s *Session) Listening() bool                { return s.listening }
func (s *Session) SidebarOpen() bool              { return s.sidebarOpen }

// SetInput replaces the input buffer. Editing is allowed while loading.
func (s *Session) SetInput(text string) {
	s.input = text
}

// CanSubmit reports whether Begin would start a request.
func (s *Session) CanSubmit() bool {
	return !s.loading && strings.TrimSpace(s.input) != ""
}

// Begin starts a send: it appends the user message, clears the buffer and
// marks the session as loading. It is a silent no-op when the buffer is
// blank or a request is already in flight.
func (s *Session) Begin() (Request, bool) {
	if !s.CanSubmit() {
		return Request{}, false
	}

	text := s.input
	s.input = ""
	s.append(RoleUser, text)
	s.loading = true

	return Request{
		Query:      text,
		Topic:      s.topic,
		Difficulty: string(s.difficulty),
	}, true
}

// Settle finishes the in-flight request by appending the AI reply, or the
// matching fallback text, and clearing the loading flag. Settle without a
// request in flight is ignored.
func (s *Session) Settle(resp *Response, err error) {
	if !s.loading {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("settle reply")
			s.append(RoleAI, ErrorText)
		}
		s.loading = false
	}()

	switch {
	case err != nil:
		log.Error().Err(err).Msg("answering service request failed")
		s.append(RoleAI, ErrorText)
	case resp == nil || strings.TrimSpace(resp.Answer) == "":
		s.append(RoleAI, NoAnswerText)
	default:
		s.append(RoleAI, resp.Answer)
	}
}

// Submit performs a full synchronous send through asker. It reports whether
// a request was started.
func (s *Session) Submit(ctx context.Context, asker Asker) bool {
	req, ok := s.Begin()
	if !ok {
		return false
	}
	resp, err := Ask(ctx, asker, req)
	s.Settle(resp, err)
	return true
}

// Ask calls asker and converts a panic into an error wrapping ErrUnexpected.
func Ask(ctx context.Context, asker Asker, req Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()
	return asker.Ask(ctx, req)
}

// SelectTopic replaces the selected topic. label must be in the catalog.
func (s *Session) SelectTopic(label string) error {
	if _, ok := catalog.TopicByLabel(label); !ok {
		return fmt.Errorf("unknown topic: %q", label)
	}
	s.topic = label
	return nil
}

// PickTopic selects a topic from the sidebar and closes it.
func (s *Session) PickTopic(label string) error {
	if err := s.SelectTopic(label); err != nil {
		return err
	}
	s.sidebarOpen = false
	return nil
}

// SelectDifficulty replaces the selected difficulty.
func (s *Session) SelectDifficulty(d catalog.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("unknown difficulty: %q", d)
	}
	s.difficulty = d
	return nil
}

func (s *Session) OpenSidebar()  { s.sidebarOpen = true }
func (s *Session) CloseSidebar() { s.sidebarOpen = false }

// StartListening marks a capture session as active. It returns false if one
// is already running.
func (s *Session) StartListening() bool {
	if s.listening {
		return false
	}
	s.listening = true
	return true
}

// StopListening ends the capture session. Safe to call when idle.
func (s *Session) StopListening() {
	s.listening = false
}

// AppendTranscript adds recognized speech to the end of the input buffer,
// separated from existing text by a single space.
func (s *Session) AppendTranscript(transcript string) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return
	}
	if s.input == "" {
		s.input = transcript
		return
	}
	s.input = strings.TrimRight(s.input, " ") + " " + transcript
}

func (s *Session) append(role Role, text string) {
	s.messages = append(s.messages, Message{
		ID:        s.newID(),
		Role:      role,
		Text:      text,
		Timestamp: s.now(),
	})
}
