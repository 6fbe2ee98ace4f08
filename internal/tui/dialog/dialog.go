// Package dialog implements the modal boxes of the panel: blocking notices
// that only need acknowledging and yes/no confirmations.
package dialog

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/gridfind/internal/export"
	"github.com/altinukshini/gridfind/internal/ui"
)

type Kind int

const (
	KindNotice Kind = iota
	KindConfirm
)

// ResultMsg is sent once the dialog closes.
type ResultMsg struct {
	Kind      Kind
	Confirmed bool
	Action    string
}

type Model struct {
	Kind     Kind
	Title    string
	Message  string
	Action   string
	Level    export.Level
	active   bool
	selected bool // true = confirm selected
}

// Notice builds a dialog that blocks input until acknowledged.
func Notice(n export.Notice) Model {
	return Model{
		Kind:    KindNotice,
		Title:   n.Title,
		Message: n.Text,
		Level:   n.Level,
		active:  true,
	}
}

func Confirm(title, message, action string) Model {
	return Model{
		Kind:    KindConfirm,
		Title:   title,
		Message: message,
		Action:  action,
		active:  true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) close(confirmed bool) (Model, tea.Cmd) {
	m.active = false
	res := ResultMsg{Kind: m.Kind, Confirmed: confirmed, Action: m.Action}
	return m, func() tea.Msg { return res }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.Kind == KindNotice {
		switch keyMsg.String() {
		case "enter", "esc", " ":
			return m.close(true)
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		return m.close(true)
	case "n", "N", "esc":
		return m.close(false)
	case "enter":
		return m.close(m.selected)
	case "tab", "left", "right", "h", "l":
		m.selected = !m.selected
	}
	return m, nil
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	color := ui.ColorWarning
	if m.Kind == KindNotice {
		color = ui.NoticeColor(m.Level)
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Width(50)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(color).
		Render(m.Title)

	if m.Kind == KindNotice {
		ok := lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Background(color).Foreground(ui.ColorText).Render("OK")
		return style.Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, m.Message, ok))
	}

	yesStyle := lipgloss.NewStyle().Padding(0, 1)
	noStyle := lipgloss.NewStyle().Padding(0, 1)

	if m.selected {
		yesStyle = yesStyle.Bold(true).Background(ui.ColorSuccess).Foreground(ui.ColorText)
		noStyle = noStyle.Foreground(ui.ColorMuted)
	} else {
		yesStyle = yesStyle.Foreground(ui.ColorMuted)
		noStyle = noStyle.Bold(true).Background(ui.ColorFailure).Foreground(ui.ColorText)
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\ny/n to confirm, esc to cancel",
		title, m.Message,
		yesStyle.Render("Yes"), noStyle.Render("No"))

	return style.Render(content)
}
