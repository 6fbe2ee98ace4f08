package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gridfind/internal/ui"
)

func RenderHeader(target, backend string, rows int, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorText).
		Render(fmt.Sprintf(" gridfind | %s", target))

	right := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("%s  %d rows ", backend, rows))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(ui.ColorHighlight).
		Width(width).
		Render(left + padding + right)
}
