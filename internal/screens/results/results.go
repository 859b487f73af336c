package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/score"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

// ResultsScreen shows both rounds' scores and the comparison between them.
type ResultsScreen struct {
	report     score.Report
	recordPath string

	// fallback is scored from in-memory answers and shown only when
	// report is unavailable.
	fallback score.Report
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen for report. recordPath is shown so the
// experimenter can find the file.
func New(report score.Report, recordPath string) *ResultsScreen {
	return &ResultsScreen{report: report, recordPath: recordPath}
}

// WithFallback sets the report shown under the "not available" note when
// the record table cannot be scored.
func (s *ResultsScreen) WithFallback(r score.Report) *ResultsScreen {
	s.fallback = r
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Finish"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q", "Q":
			return s, tea.Quit
		}
	}
	return s, nil
}

// Comparison describes the change from the first to the second round.
func Comparison(difference float64) string {
	switch {
	case difference > 0:
		return fmt.Sprintf("Improvement: +%.1f%% better in second test", difference)
	case difference < 0:
		return fmt.Sprintf("Decline: %.1f%% lower in second test", difference)
	default:
		return "Same performance in both tests"
	}
}

func roundTitle(i int) string {
	switch i {
	case 0:
		return "First Test Results"
	case 1:
		return "Second Test Results"
	}
	return fmt.Sprintf("Test %d Results", i+1)
}

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Render("Experiment Results"), "")

	if !s.report.Available {
		msg := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Results are not available") +
			"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.report.Reason)
		sections = append(sections, components.Card(msg, cw))
		if s.fallback.Available {
			sections = append(sections, lipgloss.NewStyle().Foreground(theme.Warning).Render(
				"Scores below come from this session's memory and were not saved."))
			sections = append(sections, renderReport(s.fallback, cw)...)
		}
	} else {
		sections = append(sections, renderReport(s.report, cw)...)
	}

	if s.recordPath != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Saved to "+s.recordPath))
	}

	sections = append(sections, "", lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Thank you for your participation!"))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(content))
}

func renderReport(r score.Report, cw int) []string {
	var cards []string
	for _, ph := range r.Phases {
		cards = append(cards, components.Card(renderPhase(ph, r.PhaseSize), cw))
	}
	if len(r.Phases) >= 2 {
		cards = append(cards, components.Card(renderComparison(r), cw))
	}
	return cards
}

func renderPhase(ph score.PhaseReport, phaseSize int) string {
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(roundTitle(ph.Index))
	counts := fmt.Sprintf("Correct Answers: %d out of %d", ph.Summary.Correct, phaseSize)
	pct := theme.ScoreColor(ph.Percent).Render(fmt.Sprintf("Score: %.1f%%", ph.Percent))
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d incorrect, %d unanswered", ph.Summary.Incorrect, ph.Summary.NoAnswer))
	return strings.Join([]string{title, counts, pct, detail}, "\n")
}

func renderComparison(r score.Report) string {
	color := theme.Text
	switch {
	case r.Difference > 0:
		color = theme.Success
	case r.Difference < 0:
		color = theme.Error
	}
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Performance Comparison")
	line := lipgloss.NewStyle().Foreground(color).Bold(true).Render(Comparison(r.Difference))
	overall := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Overall: %d out of %d (%.1f%%)",
			r.CombinedCorrect, r.CombinedTotal, r.CombinedPercent()))
	return strings.Join([]string{title, line, overall}, "\n")
}
