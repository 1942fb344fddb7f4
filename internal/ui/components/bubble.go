package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/ui/theme"
)

// RenderBubble renders one message within width. User messages sit on the
// right, AI messages on the left. A selected AI message shows its speak and
// copy actions.
func RenderBubble(m chat.Message, width int, selected bool) string {
	maxWidth := width * 3 / 4
	if maxWidth < 20 {
		maxWidth = width
	}

	text := m.Text
	if lipgloss.Width(text) > maxWidth-4 {
		text = lipgloss.NewStyle().Width(maxWidth - 4).Render(text)
	}

	meta := theme.Timestamp.Render(m.Timestamp.Format("15:04"))

	if !m.IsAI() {
		style := theme.UserBubble
		if selected {
			style = style.Background(theme.Secondary)
		}
		body := style.Render(text)
		block := lipgloss.JoinVertical(lipgloss.Right, body, meta)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	style := theme.AIBubble
	if selected {
		style = theme.AIBubbleSelected
		meta += "  " + theme.Hint.Render("s শুনুন · c কপি")
	}
	body := style.Render(text)
	return lipgloss.JoinVertical(lipgloss.Left, body, " "+meta)
}

// RenderLoading renders the placeholder bubble shown while an answer is
// being generated.
func RenderLoading(frame string) string {
	return theme.AIBubble.Render(
		lipgloss.NewStyle().Foreground(theme.Primary).Render(frame) + " " +
			theme.Hint.Render("উত্তর তৈরি হচ্ছে..."),
	)
}

// Spinner frames for RenderLoading.
var SpinnerFrames = strings.Split("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏", "")
