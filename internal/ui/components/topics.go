package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pigeonic/banglachat/internal/catalog"
	"github.com/pigeonic/banglachat/internal/ui/theme"
)

// TopicSelectedMsg reports the topic picked in a TopicList.
type TopicSelectedMsg struct {
	Label string
}

// TopicList is a vertical topic picker over the catalog. It only tracks
// the cursor; the selected topic is owned by the caller.
type TopicList struct {
	topics []catalog.Topic
	Cursor int
}

// NewTopicList creates a list with the cursor on the given label.
func NewTopicList(selected string) TopicList {
	l := TopicList{topics: catalog.Topics()}
	l.MoveTo(selected)
	return l
}

// MoveTo places the cursor on label, if present.
func (l *TopicList) MoveTo(label string) {
	for i, t := range l.topics {
		if t.Label == label {
			l.Cursor = i
			return
		}
	}
}

// Current returns the topic under the cursor.
func (l TopicList) Current() catalog.Topic {
	return l.topics[l.Cursor]
}

// Update handles keyboard navigation. Enter reports the topic under the
// cursor as a TopicSelectedMsg.
func (l TopicList) Update(msg tea.Msg) (TopicList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return l, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if l.Cursor > 0 {
			l.Cursor--
		}
	case "down", "j":
		if l.Cursor < len(l.topics)-1 {
			l.Cursor++
		}
	case "enter":
		label := l.Current().Label
		return l, func() tea.Msg { return TopicSelectedMsg{Label: label} }
	}
	return l, nil
}

// View renders the list. The selected topic is marked; the cursor is only
// shown while the list has focus.
func (l TopicList) View(selected string, focused bool) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("বিষয়সমূহ"))
	b.WriteString("\n\n")

	for i, t := range l.topics {
		prefix := "  "
		if focused && i == l.Cursor {
			prefix = "▸ "
		}
		line := prefix + t.Glyph() + " " + t.Label

		style := theme.Unselected
		switch {
		case t.Label == selected:
			style = theme.Selected
		case focused && i == l.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		b.WriteString(style.Render(line))
		if i < len(l.topics)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
