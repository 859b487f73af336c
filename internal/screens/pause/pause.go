// Package pause implements the short interstitial shown after a timed
// phase runs out. It counts down the break and then swaps itself for the
// next phase's screen.
package pause

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/phasetimer"
	"github.com/pairrecall/pairrecall/internal/router"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

// PauseScreen holds the participant between phases.
type PauseScreen struct {
	heading      string
	message      string
	timer        *phasetimer.Timer
	nextFactory  func() screen.Screen
	transitioned bool
}

var _ screen.Screen = (*PauseScreen)(nil)
var _ screen.KeyHintProvider = (*PauseScreen)(nil)

// New creates a pause of length d that continues to the screen built by
// nextFactory. The factory is called once, when the pause ends.
func New(heading, message string, d time.Duration, nextFactory func() screen.Screen) *PauseScreen {
	return &PauseScreen{
		heading:     heading,
		message:     message,
		timer:       phasetimer.New(d),
		nextFactory: nextFactory,
	}
}

func (p *PauseScreen) Init() tea.Cmd {
	return p.timer.Start()
}

func (p *PauseScreen) Title() string {
	return "Break"
}

func (p *PauseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue now"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (p *PauseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		expired, cmd := p.timer.Update(msg)
		if expired {
			return p, p.transition()
		}
		return p, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return p, p.transition()
		}
	}
	return p, nil
}

func (p *PauseScreen) transition() tea.Cmd {
	if p.transitioned {
		return nil
	}
	p.transitioned = true
	p.timer.Cancel()
	next := p.nextFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (p *PauseScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(p.heading),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Align(lipgloss.Center).Render(p.message),
		"",
		components.NewTimerBar("Next part in", p.timer, cw).View(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
