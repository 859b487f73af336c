package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

const pairArt = `╭──────────╮     ╭──────────╮
│  hestur  │ ──▸ │  horse   │
╰──────────╯     ╰──────────╯`

const bannerWide = "P A I R   R E C A L L"

const bannerCompact = "PairRecall"

// RenderBanner returns the title banner styled in the primary color. Uses a
// compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerWide)
}
