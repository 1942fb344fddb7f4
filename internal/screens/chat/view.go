package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pigeonic/banglachat/internal/ui/components"
	"github.com/pigeonic/banglachat/internal/ui/layout"
	"github.com/pigeonic/banglachat/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	showSidebar := layout.SidebarDocked(width) || s.session.SidebarOpen()
	if !showSidebar {
		return s.renderMain(width, height)
	}

	style := theme.Sidebar
	if s.focus == focusTopics {
		style = theme.SidebarFocused
	}
	sidebar := style.
		Width(layout.SidebarWidth).
		Height(max(height-2, 0)).
		Render(s.topics.View(s.session.Topic(), s.focus == focusTopics))

	mainWidth := max(width-lipgloss.Width(sidebar)-1, 0)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", s.renderMain(mainWidth, height))
}

// renderMain renders the thread above the notice and input lines.
func (s *ChatScreen) renderMain(width, height int) string {
	bottom := s.renderInputArea(width)
	threadHeight := max(height-lipgloss.Height(bottom)-1, 1)
	return s.renderThread(width, threadHeight) + "\n" + bottom
}

// renderThread renders the visible window of the thread. The window follows
// the newest message unless the thread has focus, in which case it keeps
// the selected message in view.
func (s *ChatScreen) renderThread(width, height int) string {
	var (
		lines            []string
		selStart, selEnd int
	)
	for i, m := range s.session.Messages() {
		selected := s.focus == focusThread && i == s.selected
		if i > 0 {
			lines = append(lines, "")
		}
		if selected {
			selStart = len(lines)
		}
		lines = append(lines, strings.Split(components.RenderBubble(m, width, selected), "\n")...)
		if selected {
			selEnd = len(lines)
		}
	}
	if s.session.Loading() {
		frame := components.SpinnerFrames[s.frame%len(components.SpinnerFrames)]
		lines = append(lines, "")
		lines = append(lines, strings.Split(components.RenderLoading(frame), "\n")...)
	}

	start := max(len(lines)-height, 0)
	if s.focus == focusThread {
		if selEnd > start+height {
			start = selEnd - height
		}
		if selStart < start {
			start = selStart
		}
	}
	end := min(start+height, len(lines))

	window := lines[start:end]
	for len(window) < height {
		window = append([]string{""}, window...)
	}
	return strings.Join(window, "\n")
}

func (s *ChatScreen) renderInputArea(width int) string {
	var rows []string

	if s.notice != "" {
		rows = append(rows, theme.Notice.Render("⚠ "+s.notice))
	}
	if s.session.Listening() {
		rows = append(rows, theme.Listening.Render("● শুনছি... (Ctrl+R থামাতে)"))
	}

	mic := components.NewButton("মাইক", components.ButtonGhost)
	if s.session.Listening() {
		mic.Variant = components.ButtonDestructive
	}
	send := components.NewButton("পাঠান", components.ButtonDefault)
	send.Disabled = !s.session.CanSubmit()

	row := mic.View() + " " + s.input.View()
	gap := max(width-lipgloss.Width(row)-lipgloss.Width(send.View()), 1)
	rows = append(rows, row+strings.Repeat(" ", gap)+send.View())

	return strings.Join(rows, "\n")
}
