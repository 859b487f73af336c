package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// PhaseDoneMsg reports that the active phase screen has finished. The app
// hands the result to the session controller and routes to the next phase.
type PhaseDoneMsg struct {
	Result session.PhaseResult
}

// Done returns a command that emits a PhaseDoneMsg for res.
func Done(res session.PhaseResult) tea.Cmd {
	return func() tea.Msg {
		return PhaseDoneMsg{Result: res}
	}
}
