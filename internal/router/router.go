package router

import (
	"github.com/pairrecall/pairrecall/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// ReplaceScreenMsg requests the router to swap the active screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router holds the active screen of a linear screen sequence. There is no
// back navigation, so each transition replaces the previous screen.
type Router struct {
	active      screen.Screen
	transitions int
}

// New creates a Router showing initial.
func New(initial screen.Screen) *Router {
	return &Router{active: initial}
}

// Replace makes s the active screen and calls its Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.active = s
	r.transitions++
	return s.Init()
}

// Active returns the current screen.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Transitions returns how many times the active screen was replaced.
func (r *Router) Transitions() int {
	return r.transitions
}

// Update forwards a message to the active screen and handles ReplaceScreenMsg.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ReplaceScreenMsg); ok {
		return r.Replace(msg.Screen)
	}
	if r.active == nil {
		return nil
	}

	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
