package distractor

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/phasetimer"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

const prompt = `Please pick up your phone and watch short-form videos
(TikTok, YouTube Shorts or Instagram Reels) until the timer runs out.

Keep the videos going the whole time.
The test starts automatically when the time is up.`

// DistractorScreen is the retention interval between study and test.
type DistractorScreen struct {
	phase     session.Phase
	timer     *phasetimer.Timer
	allowSkip bool
	done      bool
}

var _ screen.Screen = (*DistractorScreen)(nil)
var _ screen.KeyHintProvider = (*DistractorScreen)(nil)

// New creates the distractor screen for phase.
func New(phase session.Phase, d time.Duration, allowSkip bool) *DistractorScreen {
	return &DistractorScreen{
		phase:     phase,
		timer:     phasetimer.New(d),
		allowSkip: allowSkip,
	}
}

func (s *DistractorScreen) Init() tea.Cmd {
	return s.timer.Start()
}

func (s *DistractorScreen) Title() string {
	return fmt.Sprintf("Videos: Round %d", s.phase.Index()+1)
}

func (s *DistractorScreen) KeyHints() []layout.KeyHint {
	if s.allowSkip {
		return []layout.KeyHint{
			{Key: "Ctrl+N", Description: "Skip"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *DistractorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		expired, cmd := s.timer.Update(msg)
		if expired {
			return s, s.finish(false)
		}
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+n" && s.allowSkip {
			return s, s.finish(true)
		}
	}
	return s, nil
}

func (s *DistractorScreen) finish(skipped bool) tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	s.timer.Cancel()
	return screen.Done(session.PhaseResult{Phase: s.phase, Skipped: skipped})
}

func (s *DistractorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	body := lipgloss.NewStyle().Foreground(theme.Text).Render(prompt)
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Video break"),
		"",
		components.Card(body, cw),
		"",
		components.NewTimerBar("Time remaining", s.timer, cw).View(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
