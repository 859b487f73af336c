package memorize

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/phasetimer"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

const (
	gridColumns    = 5
	compactColumns = 3
	maxCellWidth   = 18
)

// MemorizeScreen shows a round's word pairs under a countdown.
type MemorizeScreen struct {
	phase     session.Phase
	pairs     []wordset.WordPair
	timer     *phasetimer.Timer
	allowSkip bool
	done      bool
}

var _ screen.Screen = (*MemorizeScreen)(nil)
var _ screen.KeyHintProvider = (*MemorizeScreen)(nil)

// New creates the study screen for phase.
func New(phase session.Phase, pairs []wordset.WordPair, d time.Duration, allowSkip bool) *MemorizeScreen {
	return &MemorizeScreen{
		phase:     phase,
		pairs:     pairs,
		timer:     phasetimer.New(d),
		allowSkip: allowSkip,
	}
}

func (s *MemorizeScreen) Init() tea.Cmd {
	return s.timer.Start()
}

func (s *MemorizeScreen) Title() string {
	return fmt.Sprintf("Study: Round %d", s.phase.Index()+1)
}

func (s *MemorizeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if s.allowSkip {
		hints = append([]layout.KeyHint{{Key: "Ctrl+N", Description: "Skip"}}, hints...)
	}
	return hints
}

func (s *MemorizeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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

func (s *MemorizeScreen) finish(skipped bool) tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	s.timer.Cancel()
	return screen.Done(session.PhaseResult{Phase: s.phase, Skipped: skipped})
}

func (s *MemorizeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	header := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Memorize these word pairs"),
		"",
		components.NewTimerBar("Time remaining", s.timer, cw).View(),
		"",
	)

	var grid string
	if layout.IsCompactHeight(height) {
		grid = s.compactList(width)
	} else {
		grid = s.cellGrid(width)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, header, grid))
}

func (s *MemorizeScreen) columns(width int) int {
	if layout.IsCompactWidth(width) {
		return compactColumns
	}
	return gridColumns
}

func (s *MemorizeScreen) cellGrid(width int) string {
	cols := s.columns(width)
	cellWidth := width/cols - 2
	if cellWidth > maxCellWidth {
		cellWidth = maxCellWidth
	}
	cells := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		cells = append(cells, components.PairCell(p.Source, p.Target, cellWidth))
	}
	return components.Grid(cells, cols)
}

// compactList renders one "source  target" line per pair, in columns.
func (s *MemorizeScreen) compactList(width int) string {
	cols := s.columns(width)
	colWidth := width/cols - 2
	src := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	tgt := lipgloss.NewStyle().Foreground(theme.Secondary)

	cells := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		line := src.Render(p.Source) + "  " + tgt.Render(p.Target)
		cells = append(cells, lipgloss.NewStyle().Width(colWidth).Render(line))
	}
	return strings.TrimRight(components.Grid(cells, cols), "\n")
}
