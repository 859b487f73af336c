// Package layout draws the frame around every screen: a header naming the
// current phase, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal cannot fit the word grid.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the participant to enlarge the window.
func RenderMinSizeMessage(width, height int) string {
	text := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("Terminal too small"),
		"",
		fmt.Sprintf("The experiment needs at least %d x %d.", MinWidth, MinHeight),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Now: %d x %d", width, height)),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(text))
}

// bar wraps one line of content in the card-colored rounded box used by
// both the header and the footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// progressDots draws one dot per phase, filled up to step.
func progressDots(step, total int) string {
	done := lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Repeat("●", step))
	rest := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Repeat("○", total-step))
	return done + rest
}

// RenderHeader renders the title bar. step and total place the current
// phase in the experiment; a zero total hides the progress.
func RenderHeader(title string, step, total int, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  PairRecall")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	var right string
	if total > 0 && step >= 0 && step <= total {
		right = progressDots(step, total) + " " +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d/%d", step, total)) + "  "
	}

	// Center the title in the box, then push the progress to the right edge.
	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)

	return bar(left+strings.Repeat(" ", gapL)+center+strings.Repeat(" ", gapR)+right, width)
}

// RenderFooter renders the key hints, dropping trailing hints that do not
// fit on one line.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := " "
	for _, h := range hints {
		part := "  " + keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if lipgloss.Width(line+part) > width-4 {
			break
		}
		line += part
	}
	return bar(line, width)
}

// ContentHeight returns the rows left for the screen body between header
// and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, body and footer, padding the body to fill the
// terminal.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
