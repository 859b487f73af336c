package components

import (
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked cards.
// All cards are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// PairCell renders one source/target pair as a fixed-width grid cell.
func PairCell(source, target string, width int) string {
	src := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(source)
	tgt := lipgloss.NewStyle().Foreground(theme.Secondary).Render(target)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Align(lipgloss.Center).
		Render(src + "\n" + tgt)
}

// Grid lays cells out row-major in the given number of columns.
func Grid(cells []string, columns int) string {
	if columns < 1 {
		columns = 1
	}
	var rows []string
	for i := 0; i < len(cells); i += columns {
		end := i + columns
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
