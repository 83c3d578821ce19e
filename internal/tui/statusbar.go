package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(shown, total int, more bool, left, hints string, width int) string {
	moreAccentStyle := lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	if left == "" {
		left = fmt.Sprintf(" %d of %d shown", shown, total)
		if more {
			left += " · " + moreAccentStyle.Render("m more")
		}
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
