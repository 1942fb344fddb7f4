package chat

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"

	"github.com/pigeonic/banglachat/internal/catalog"
	sess "github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/screen"
	"github.com/pigeonic/banglachat/internal/ui/components"
	"github.com/pigeonic/banglachat/internal/ui/layout"
	"github.com/pigeonic/banglachat/internal/voice"
)

const (
	spinnerInterval = 100 * time.Millisecond
	noticeDuration  = 4 * time.Second
	inputCharLimit  = 2000
)

// User-visible notices.
const (
	noticeUnsupported = "আপনার ডিভাইসে স্পিচ রিকগনিশন সমর্থিত নয়।"
	noticeCopied      = "কপি করা হয়েছে।"
	noticeCopyFailed  = "কপি করা যায়নি।"
	noticeSpeakFailed = "পড়ে শোনানো যায়নি।"
)

type focus int

const (
	focusInput focus = iota
	focusThread
	focusTopics
)

// Options are the collaborators of the chat screen. Nil capabilities are
// replaced by their unsupported stand-ins.
type Options struct {
	Asker      sess.Asker
	Recognizer voice.Recognizer
	Speaker    voice.Speaker
	Locale     string
	Clipboard  func(string) error
}

// ChatScreen is the single conversation view.
type ChatScreen struct {
	session    *sess.Session
	asker      sess.Asker
	recognizer voice.Recognizer
	speaker    voice.Speaker
	locale     string
	clipboard  func(string) error

	input  components.TextInput
	topics components.TopicList
	focus  focus

	selected int // thread cursor while focusThread
	frame    int

	notice    string
	noticeSeq int

	captureSeq  int
	stopCapture context.CancelFunc

	width int
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.StatusProvider = (*ChatScreen)(nil)

// New creates a ChatScreen over a fresh session.
func New(opts Options) *ChatScreen {
	if opts.Recognizer == nil {
		opts.Recognizer = voice.Unsupported{}
	}
	if opts.Speaker == nil {
		opts.Speaker = voice.Silent{}
	}
	if opts.Locale == "" {
		opts.Locale = voice.DefaultLocale
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	s := &ChatScreen{
		session:    sess.NewSession(),
		asker:      opts.Asker,
		recognizer: opts.Recognizer,
		speaker:    opts.Speaker,
		locale:     opts.Locale,
		clipboard:  opts.Clipboard,
	}
	s.input = components.NewTextInput(placeholder(s.session.Topic()), inputCharLimit)
	s.topics = components.NewTopicList(s.session.Topic())
	return s
}

// Session exposes the underlying conversation state.
func (s *ChatScreen) Session() *sess.Session {
	return s.session
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "বাংলা এআই অ্যাসিস্ট্যান্ট"
}

func (s *ChatScreen) Status() string {
	status := components.DifficultyStrip(s.session.Difficulty())
	if s.session.Loading() {
		status = components.SpinnerFrames[s.frame%len(components.SpinnerFrames)] + "  " + status
	}
	return status
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	switch s.focus {
	case focusTopics:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "বাছাই"},
			{Key: "Enter", Description: "নির্বাচন"},
			{Key: "Esc", Description: "ফিরে যান"},
		}
	case focusThread:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "বার্তা"},
			{Key: "s", Description: "শুনুন"},
			{Key: "c", Description: "কপি"},
			{Key: "Esc", Description: "ফিরে যান"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "পাঠান"},
		{Key: "Ctrl+T", Description: "বিষয়"},
		{Key: "Ctrl+G", Description: "কাঠিন্য"},
		{Key: "Ctrl+R", Description: "মাইক"},
		{Key: "Tab", Description: "বার্তা"},
		{Key: "Ctrl+C", Description: "প্রস্থান"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.input.SetWidth(s.inputWidth(msg.Width))
		return s, nil

	case answerMsg:
		s.session.Settle(msg.Response, msg.Err)
		return s, nil

	case spinnerTickMsg:
		if !s.session.Loading() {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case transcriptMsg:
		return s.handleTranscript(msg)

	case captureEndedMsg:
		if msg.Seq == s.captureSeq {
			s.endCapture()
		}
		return s, nil

	case noticeExpiredMsg:
		if msg.Seq == s.noticeSeq {
			s.notice = ""
		}
		return s, nil

	case spokeMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("speak message")
			return s, s.showNotice(noticeSpeakFailed)
		}
		return s, nil

	case copiedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("copy message")
			return s, s.showNotice(noticeCopyFailed)
		}
		return s, s.showNotice(noticeCopied)

	case components.TopicSelectedMsg:
		if err := s.session.PickTopic(msg.Label); err != nil {
			log.Warn().Err(err).Msg("pick topic")
			return s, nil
		}
		s.input.SetPlaceholder(placeholder(msg.Label))
		s.focus = focusInput
		return s, s.input.Focus()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other input internals.
	if s.focus == focusInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		return s.toggleTopics()
	case "ctrl+g":
		_ = s.session.SelectDifficulty(s.session.Difficulty().Next())
		return s, nil
	case "ctrl+r":
		return s.toggleListening()
	}

	switch s.focus {
	case focusTopics:
		return s.handleTopicsKey(msg)
	case focusThread:
		return s.handleThreadKey(msg)
	}
	return s.handleInputKey(msg)
}

func (s *ChatScreen) handleInputKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter", "shift+enter":
		return s.submit()
	case "tab":
		s.focus = focusThread
		s.selected = s.lastAI()
		s.input.Blur()
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.session.SetInput(s.input.Value())
	return s, cmd
}

func (s *ChatScreen) handleThreadKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc":
		s.focus = focusInput
		return s, s.input.Focus()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < s.session.Len()-1 {
			s.selected++
		}
	case "s":
		return s, s.speak(s.selectedText())
	case "c":
		return s, s.copy(s.selectedText())
	}
	return s, nil
}

func (s *ChatScreen) handleTopicsKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		return s.closeTopics()
	}
	var cmd tea.Cmd
	s.topics, cmd = s.topics.Update(msg)
	return s, cmd
}

// submit starts a send through the answering service. The request runs in
// a command; its reply arrives as an answerMsg.
func (s *ChatScreen) submit() (screen.Screen, tea.Cmd) {
	s.session.SetInput(s.input.Value())
	req, ok := s.session.Begin()
	if !ok {
		return s, nil
	}
	s.input.Reset()
	s.frame = 0

	asker := s.asker
	ask := func() tea.Msg {
		resp, err := sess.Ask(context.Background(), asker, req)
		return answerMsg{Response: resp, Err: err}
	}
	return s, tea.Batch(ask, spinnerTick())
}

func (s *ChatScreen) toggleTopics() (screen.Screen, tea.Cmd) {
	if s.focus == focusTopics {
		return s.closeTopics()
	}
	s.session.OpenSidebar()
	s.topics.MoveTo(s.session.Topic())
	s.focus = focusTopics
	s.input.Blur()
	return s, nil
}

func (s *ChatScreen) closeTopics() (screen.Screen, tea.Cmd) {
	s.session.CloseSidebar()
	s.focus = focusInput
	return s, s.input.Focus()
}

// toggleListening starts a capture session, or stops the running one. An
// unsupported runtime leaves the listening state untouched and shows a
// notice instead.
func (s *ChatScreen) toggleListening() (screen.Screen, tea.Cmd) {
	if s.session.Listening() {
		s.endCapture()
		return s, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	events, err := s.recognizer.Capture(ctx, s.locale)
	if err != nil {
		cancel()
		if errors.Is(err, voice.ErrUnsupported) {
			return s, s.showNotice(noticeUnsupported)
		}
		log.Warn().Err(err).Msg("start voice capture")
		return s, nil
	}

	s.session.StartListening()
	s.captureSeq++
	s.stopCapture = cancel
	return s, waitForTranscript(s.captureSeq, events)
}

func (s *ChatScreen) handleTranscript(msg transcriptMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.captureSeq || !s.session.Listening() {
		return s, nil
	}
	s.endCapture()

	if msg.Event.Err != nil {
		log.Debug().Err(msg.Event.Err).Msg("voice recognition ended")
		return s, nil
	}
	s.session.AppendTranscript(msg.Event.Transcript)
	s.input.SetValue(s.session.Input())
	return s, nil
}

func (s *ChatScreen) endCapture() {
	if s.stopCapture != nil {
		s.stopCapture()
		s.stopCapture = nil
	}
	s.session.StopListening()
}

func waitForTranscript(seq int, events <-chan voice.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return captureEndedMsg{Seq: seq}
		}
		return transcriptMsg{Seq: seq, Event: ev}
	}
}

func (s *ChatScreen) speak(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	speaker, locale := s.speaker, s.locale
	return func() tea.Msg {
		return spokeMsg{Err: speaker.Speak(text, locale)}
	}
}

func (s *ChatScreen) copy(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	write := s.clipboard
	return func() tea.Msg {
		return copiedMsg{Err: write(text)}
	}
}

func (s *ChatScreen) showNotice(text string) tea.Cmd {
	s.notice = text
	s.noticeSeq++
	seq := s.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{Seq: seq}
	})
}

func (s *ChatScreen) selectedText() string {
	msgs := s.session.Messages()
	if s.selected < 0 || s.selected >= len(msgs) {
		return ""
	}
	return msgs[s.selected].Text
}

// lastAI returns the index of the newest AI message.
func (s *ChatScreen) lastAI() int {
	msgs := s.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsAI() {
			return i
		}
	}
	return len(msgs) - 1
}

func (s *ChatScreen) inputWidth(width int) int {
	if layout.SidebarDocked(width) {
		width -= layout.SidebarWidth + 1
	}
	// mic and send buttons, prompt, margins
	return max(width-24, 10)
}

func placeholder(topic string) string {
	if topic == "" {
		topic = catalog.DefaultTopicLabel
	}
	return topic + " সম্পর্কে জিজ্ঞাসা করুন..."
}

// spinnerTick returns a short tick command for the loading spinner.
func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
