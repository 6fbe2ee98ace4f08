package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gridfind/internal/export"
	"github.com/altinukshini/gridfind/internal/panel"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#0EA5E9")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorHighlight = lipgloss.Color("#1F2937")
	ColorText      = lipgloss.Color("#F9FAFB")

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleRowPrimary = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleRowSecondary = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorSecondary).
				Padding(0, 1)

	StyleRowAlert = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorFailure).
			Padding(0, 1)

	// StyleSelected marks query text that the next keystroke replaces.
	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorInfo)
)

func RowStyle(s panel.Style) lipgloss.Style {
	switch s {
	case panel.StyleSecondary:
		return StyleRowSecondary
	case panel.StyleAlert:
		return StyleRowAlert
	default:
		return StyleRowPrimary
	}
}

func NoticeColor(l export.Level) lipgloss.Color {
	switch l {
	case export.LevelSuccess:
		return ColorSuccess
	case export.LevelError:
		return ColorFailure
	default:
		return ColorInfo
	}
}
