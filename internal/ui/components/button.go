package components

import (
	"charm.land/lipgloss/v2"

	"github.com/pigeonic/banglachat/internal/ui/theme"
)

// ButtonVariant selects a button's look.
type ButtonVariant int

const (
	ButtonDefault ButtonVariant = iota
	ButtonOutline
	ButtonGhost
	ButtonDestructive
)

var buttonStyles = map[ButtonVariant]lipgloss.Style{
	ButtonDefault: lipgloss.NewStyle().
		Background(theme.Primary).
		Foreground(theme.Text).
		Bold(true).
		Padding(0, 1),
	ButtonOutline: lipgloss.NewStyle().
		Foreground(theme.Primary).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(theme.Primary).
		Padding(0, 1),
	ButtonGhost: lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 1),
	ButtonDestructive: lipgloss.NewStyle().
		Background(theme.Error).
		Foreground(theme.Text).
		Bold(true).
		Padding(0, 1),
}

var buttonDisabled = lipgloss.NewStyle().
	Background(theme.Border).
	Foreground(theme.TextDim).
	Padding(0, 1)

// Button is a styled, stateless button.
type Button struct {
	Label    string
	Variant  ButtonVariant
	Disabled bool
}

// NewButton creates a new button.
func NewButton(label string, variant ButtonVariant) Button {
	return Button{Label: label, Variant: variant}
}

// View renders the button.
func (b Button) View() string {
	if b.Disabled {
		return buttonDisabled.Render(b.Label)
	}
	style, ok := buttonStyles[b.Variant]
	if !ok {
		style = buttonStyles[ButtonDefault]
	}
	return style.Render(b.Label)
}
