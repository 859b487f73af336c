package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/phasetimer"
	qz "github.com/pairrecall/pairrecall/internal/quiz"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

const answerLimit = 40

// QuizScreen asks for the translation of every word of a round under a
// countdown. The input always edits the answer of the current word; moving
// between words keeps what was typed.
type QuizScreen struct {
	phase     session.Phase
	quiz      *qz.Quiz
	input     components.TextInput
	timer     *phasetimer.Timer
	allowSkip bool
	done      bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the test screen for phase. rng only shuffles the
// presentation order.
func New(phase session.Phase, pairs []wordset.WordPair, d time.Duration, allowSkip bool, rng *rand.Rand) *QuizScreen {
	return &QuizScreen{
		phase:     phase,
		quiz:      qz.New(pairs, rng),
		input:     components.NewTextInput("translation", answerLimit),
		timer:     phasetimer.New(d),
		allowSkip: allowSkip,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.timer.Start(), s.input.Init())
}

func (s *QuizScreen) Title() string {
	return fmt.Sprintf("Test: Round %d", s.phase.Index()+1)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Next"},
		{Key: "Ctrl+G", Description: "Next blank"},
	}
	if s.allowSkip {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+N", Description: "Finish"})
	}
	return hints
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}

	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		expired, cmd := s.timer.Update(msg)
		if expired {
			return s, s.finish(false)
		}
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, s.updateInput(msg)
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		if s.allowSkip {
			return s, s.finish(true)
		}
		return s, nil
	case "up", "shift+tab":
		s.move(s.quiz.Current() - 1)
		return s, nil
	case "down", "tab", "enter":
		s.move(s.quiz.Current() + 1)
		return s, nil
	case "pgup":
		s.move(0)
		return s, nil
	case "pgdown":
		s.move(s.quiz.Len() - 1)
		return s, nil
	case "ctrl+g":
		if i := s.quiz.NextUnanswered(); i >= 0 {
			s.move(i)
		}
		return s, nil
	}

	return s, s.updateInput(msg)
}

// updateInput forwards msg to the text input (keys, pastes) and stores the
// resulting text as the current word's answer.
func (s *QuizScreen) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if p, ok := s.quiz.CurrentPair(); ok {
		s.quiz.RecordAnswer(p.WordID, s.input.Value())
	}
	return cmd
}

// move jumps to presentation index i and loads that word's answer into
// the input. Out-of-range moves leave everything as is.
func (s *QuizScreen) move(i int) {
	s.quiz.JumpTo(i)
	if p, ok := s.quiz.CurrentPair(); ok {
		s.input.SetValue(s.quiz.Answer(p.WordID))
	}
}

func (s *QuizScreen) finish(skipped bool) tea.Cmd {
	s.done = true
	s.timer.Cancel()
	return screen.Done(session.PhaseResult{
		Phase:   s.phase,
		Answers: s.quiz.Expire(),
		Skipped: skipped,
	})
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var question string
	if p, ok := s.quiz.CurrentPair(); ok {
		word := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Source)
		question = lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(
				fmt.Sprintf("Word %d of %d", s.quiz.Current()+1, s.quiz.Len())),
			"",
			word,
			"",
			"Translation: "+s.input.View(),
		)
	} else {
		question = lipgloss.NewStyle().Foreground(theme.TextDim).Render("No words in this round.")
	}

	status := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d of %d answered", s.quiz.AnsweredCount(), s.quiz.Len()))

	content := lipgloss.JoinVertical(lipgloss.Center,
		components.NewTimerBar("Time remaining", s.timer, cw).View(),
		"",
		components.Card(question, cw),
		"",
		s.renderMarkers(cw),
		status,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderMarkers draws one dot per word: filled when answered, bracketed
// for the current word.
func (s *QuizScreen) renderMarkers(width int) string {
	perRow := width / 4
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	var b strings.Builder
	for i := 0; i < s.quiz.Len(); i++ {
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if s.quiz.Answered(i) {
			mark = "●"
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		cell := " " + mark + " "
		if i == s.quiz.Current() {
			cell = "[" + mark + "]"
			style = style.Bold(true).Foreground(theme.Primary)
		}
		b.WriteString(style.Render(cell) + " ")
		if (i+1)%perRow == 0 {
			rows = append(rows, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}
