package instructions

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

// Timings are the phase lengths shown to the participant.
type Timings struct {
	Memorize   time.Duration
	Distractor time.Duration
	Quiz       time.Duration
}

// InstructionsScreen explains the procedure before the first round.
type InstructionsScreen struct {
	text   string
	button components.Button
	done   bool
}

var _ screen.Screen = (*InstructionsScreen)(nil)
var _ screen.KeyHintProvider = (*InstructionsScreen)(nil)

// New creates the instructions screen for rounds of phaseSize words.
func New(phaseSize int, t Timings) *InstructionsScreen {
	return &InstructionsScreen{
		text:   Text(phaseSize, t),
		button: components.NewButton("Begin"),
	}
}

// Text renders the procedure description.
func Text(phaseSize int, t Timings) string {
	lines := []string{
		fmt.Sprintf("1. Study %d word pairs for %s.", phaseSize, humanize(t.Memorize)),
		fmt.Sprintf("2. Watch short videos on your phone for %s.", humanize(t.Distractor)),
		fmt.Sprintf("3. Type the translation of each word. You have %s.", humanize(t.Quiz)),
		"",
		"Then the same steps repeat with a new list of words.",
		"",
		"During the test, move between words with ↑/↓ or Tab.",
		"Answers are kept when you move away and can be changed until time runs out.",
		"Leave a word blank if you do not remember it.",
	}
	return strings.Join(lines, "\n")
}

// humanize renders whole minutes as "N minutes" and anything else in seconds.
func humanize(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		if d == time.Minute {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return fmt.Sprintf("%d seconds", int(d.Round(time.Second)/time.Second))
	}
}

func (s *InstructionsScreen) Init() tea.Cmd {
	return nil
}

func (s *InstructionsScreen) Title() string {
	return "Instructions"
}

func (s *InstructionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Begin"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *InstructionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.button.Pressed(msg) {
		return s, s.begin()
	}
	return s, nil
}

func (s *InstructionsScreen) begin() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	s.button.Disabled = true
	return screen.Done(session.PhaseResult{Phase: session.PhaseInstructions})
}

func (s *InstructionsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	body := lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Left).Render(s.text)
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("How it works"),
		"",
		components.Card(body, cw),
		"",
		s.button.View(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
