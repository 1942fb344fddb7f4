// Package screen defines the contract between the root model and the
// content it frames.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/pigeonic/banglachat/internal/ui/layout"
)

// Screen is the content area drawn between header and footer.
type Screen interface {
	// Init returns the command to run when the program starts.
	Init() tea.Cmd

	// Update receives every message not consumed by the root model.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area at the given size.
	View(width, height int) string

	// Title is shown on the left of the header.
	Title() string
}

// KeyHintProvider is implemented by screens whose footer hints depend on
// their state.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show status on the right
// of the header.
type StatusProvider interface {
	Status() string
}
