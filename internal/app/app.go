package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pigeonic/banglachat/internal/screen"
	"github.com/pigeonic/banglachat/internal/ui/layout"
)

// Disclaimer is shown under the key hints on every frame.
const Disclaimer = "AI ভুল তথ্য দিতে পারে। গুরুত্বপূর্ণ তথ্যের জন্য যাচাই করুন।"

// AppModel is the root Bubble Tea model. It draws the frame around the
// active screen and owns the quit key.
type AppModel struct {
	screen screen.Screen
	width  int
	height int
}

// NewAppModel wraps s in the application frame.
func NewAppModel(s screen.Screen) AppModel {
	return AppModel{screen: s}
}

func (m AppModel) Init() tea.Cmd {
	return m.screen.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: layout.ContentHeight(msg.Height)}
		var cmd tea.Cmd
		m.screen, cmd = m.screen.Update(inner)
		return m, cmd

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the full frame around the active screen.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	var status string
	if sp, ok := m.screen.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(m.screen.Title(), status, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "প্রস্থান"}}
	if hp, ok := m.screen.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, Disclaimer, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.screen.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program on s.
func Run(s screen.Screen) error {
	p := tea.NewProgram(NewAppModel(s))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
