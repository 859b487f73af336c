package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/phasetimer"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

// lowTime is when the countdown switches to the warning color.
const lowTime = 30 * time.Second

// TimerBar displays a countdown as a draining bar with the mm:ss remaining.
type TimerBar struct {
	Label     string
	Remaining time.Duration
	Total     time.Duration
	Width     int
}

// NewTimerBar creates a bar for t. A nil timer renders as an empty bar.
func NewTimerBar(label string, t *phasetimer.Timer, width int) TimerBar {
	bar := TimerBar{Label: label, Width: width}
	if t != nil {
		bar.Remaining = t.Remaining()
		bar.Total = t.Duration()
	}
	return bar
}

// Fraction returns the share of the countdown still remaining, in [0,1].
func (p TimerBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Remaining) / float64(p.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// View renders the bar.
func (p TimerBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	clockColor := theme.Accent
	fillColor := theme.Secondary
	if p.Remaining <= lowTime {
		clockColor = theme.Error
		fillColor = theme.Warning
	}
	clock := lipgloss.NewStyle().
		Foreground(clockColor).
		Bold(true).
		Render("  " + phasetimer.Format(p.Remaining))

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(clock)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	result += lipgloss.NewStyle().
		Background(fillColor).
		Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	return result + clock
}
