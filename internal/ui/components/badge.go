package components

import (
	"charm.land/lipgloss/v2"

	"github.com/pigeonic/banglachat/internal/ui/theme"
)

// BadgeVariant selects a badge's look.
type BadgeVariant int

const (
	BadgeDefault BadgeVariant = iota
	BadgeSecondary
	BadgeOutline
)

var badgeStyles = map[BadgeVariant]lipgloss.Style{
	BadgeDefault: lipgloss.NewStyle().
		Background(theme.Primary).
		Foreground(theme.Text).
		Bold(true).
		Padding(0, 1),
	BadgeSecondary: lipgloss.NewStyle().
		Background(theme.BgCard).
		Foreground(theme.Secondary).
		Padding(0, 1),
	BadgeOutline: lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 1),
}

// Badge renders a short label as a pill.
func Badge(label string, variant BadgeVariant) string {
	style, ok := badgeStyles[variant]
	if !ok {
		style = badgeStyles[BadgeDefault]
	}
	return style.Render(label)
}
