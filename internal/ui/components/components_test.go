package components

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pigeonic/banglachat/internal/catalog"
	"github.com/pigeonic/banglachat/internal/chat"
)

func TestButtonView(t *testing.T) {
	for _, v := range []ButtonVariant{ButtonDefault, ButtonOutline, ButtonGhost, ButtonDestructive} {
		if got := NewButton("পাঠান", v).View(); !strings.Contains(got, "পাঠান") {
			t.Errorf("variant %d: label missing in %q", v, got)
		}
	}
	b := NewButton("পাঠান", ButtonDefault)
	b.Disabled = true
	if !strings.Contains(b.View(), "পাঠান") {
		t.Error("disabled button should still show its label")
	}
}

func TestDifficultyStrip(t *testing.T) {
	strip := DifficultyStrip(catalog.Medium)
	for _, label := range []string{"সহজ", "মাঝারি", "কঠিন"} {
		if !strings.Contains(strip, label) {
			t.Errorf("strip missing %s: %q", label, strip)
		}
	}
}

func TestTopicList_Navigation(t *testing.T) {
	l := NewTopicList(catalog.DefaultTopicLabel)
	if l.Current().Label != catalog.DefaultTopicLabel {
		t.Fatalf("cursor starts on %s", l.Current().Label)
	}

	l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if l.Current().Label == catalog.DefaultTopicLabel {
		t.Error("up should move the cursor")
	}

	for range 10 {
		l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	if l.Cursor != 0 {
		t.Errorf("cursor = %d, should stop at 0", l.Cursor)
	}

	l, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a selection")
	}
	msg, ok := cmd().(TopicSelectedMsg)
	if !ok || msg.Label != catalog.Topics()[0].Label {
		t.Errorf("selection = %#v", msg)
	}
}

func TestTopicList_View(t *testing.T) {
	l := NewTopicList("ভ্রমণ")
	v := l.View("ভ্রমণ", true)
	for _, topic := range catalog.Topics() {
		if !strings.Contains(v, topic.Label) {
			t.Errorf("view missing %s", topic.Label)
		}
	}
	if !strings.Contains(v, "▸") {
		t.Error("focused list should show the cursor")
	}
	if strings.Contains(l.View("ভ্রমণ", false), "▸") {
		t.Error("unfocused list should hide the cursor")
	}
}

func TestRenderBubble(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	ai := chat.Message{Role: chat.RoleAI, Text: "নমস্কার", Timestamp: ts}

	got := RenderBubble(ai, 60, false)
	if !strings.Contains(got, "নমস্কার") || !strings.Contains(got, "09:05") {
		t.Errorf("bubble = %q", got)
	}
	if strings.Contains(got, "কপি") {
		t.Error("unselected bubble should not show actions")
	}
	if !strings.Contains(RenderBubble(ai, 60, true), "কপি") {
		t.Error("selected AI bubble should show actions")
	}

	user := chat.Message{Role: chat.RoleUser, Text: "প্রশ্ন", Timestamp: ts}
	if strings.Contains(RenderBubble(user, 60, true), "কপি") {
		t.Error("user bubbles have no actions")
	}
}

func TestRenderLoading(t *testing.T) {
	if !strings.Contains(RenderLoading(SpinnerFrames[0]), "উত্তর তৈরি হচ্ছে...") {
		t.Error("loading text missing")
	}
	if len(SpinnerFrames) != 10 {
		t.Errorf("spinner frames = %d", len(SpinnerFrames))
	}
}

func TestTextInput(t *testing.T) {
	ti := NewTextInput("placeholder", 0)
	ti, _ = ti.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	ti, _ = ti.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if ti.Value() != "ab" {
		t.Errorf("value = %q", ti.Value())
	}
	ti.SetValue("নতুন")
	if ti.Value() != "নতুন" {
		t.Errorf("value = %q", ti.Value())
	}
	ti.Reset()
	if ti.Value() != "" {
		t.Errorf("value after reset = %q", ti.Value())
	}
}
