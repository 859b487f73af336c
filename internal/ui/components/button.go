package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

// Button is a single call to action. It fires on Enter or Space until it
// is disabled.
type Button struct {
	Label    string
	Disabled bool
}

// NewButton creates an enabled button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// Pressed reports whether msg activates the button.
func (b Button) Pressed(msg tea.Msg) bool {
	if b.Disabled {
		return false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch kmsg.String() {
	case "enter", "space":
		return true
	}
	return false
}

func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.Render(b.Label)
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}
