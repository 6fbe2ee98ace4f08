package resultsview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/altinukshini/gridfind/internal/panel"
	"github.com/altinukshini/gridfind/internal/ui"
)

type Model struct {
	input    textinput.Model
	viewport viewport.Model
	panel    *panel.Panel
	selected bool // the next edit replaces the whole query
	busy     bool
	width    int
	height   int
	ready    bool
}

func New(p *panel.Panel) Model {
	ti := textinput.New()
	ti.Placeholder = "Number to find"
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()

	return Model{
		input: ti,
		panel: p,
	}
}

func (m Model) Query() string {
	return m.input.Value()
}

// SetQuery replaces the query text, e.g. when started with an initial query.
func (m *Model) SetQuery(s string) {
	m.input.SetValue(s)
	m.selected = false
}

func (m Model) Selected() bool { return m.selected }
func (m Model) Busy() bool     { return m.busy }

func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

func (m Model) Panel() *panel.Panel { return m.panel }

// Captions returns the text of every rendered row, in display order.
func (m Model) Captions() []string {
	return m.panel.Captions()
}

// Render runs one panel pass and applies its focus request.
func (m *Model) Render(queryText string, src panel.MatchSource) panel.Pass {
	before := m.panel.Len()
	pass := m.panel.Render(queryText, src)
	m.busy = false

	if pass.FocusQuery {
		m.input.Focus()
		m.input.CursorEnd()
	}
	m.selected = pass.SelectQuery

	m.refresh()
	if m.panel.Policy() == panel.Accumulate && before > 0 {
		rows := m.panel.Rows()
		m.viewport.SetYOffset(rows[len(rows)-pass.Added].Offset)
	} else {
		m.viewport.GotoTop()
	}
	return pass
}

// Clear drops every rendered row.
func (m *Model) Clear() {
	m.panel.Reset()
	m.refresh()
	m.viewport.GotoTop()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ui.Keys.Submit):
			if m.busy {
				return m, nil
			}
			text := m.input.Value()
			return m, func() tea.Msg { return ui.SubmitMsg{Text: text} }
		case key.Matches(msg, ui.Keys.Up):
			m.viewport.SetYOffset(m.viewport.YOffset - 1)
			return m, nil
		case key.Matches(msg, ui.Keys.Down):
			m.viewport.SetYOffset(m.viewport.YOffset + 1)
			return m, nil
		case key.Matches(msg, ui.Keys.PageUp):
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
			return m, nil
		case key.Matches(msg, ui.Keys.PageDown):
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
			return m, nil
		}

		if m.selected {
			m.selected = false
			switch msg.Type {
			case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
				m.input.SetValue("")
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh lays the panel rows out on a canvas as tall as the scroll extent.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderRows())
}

func (m Model) renderRows() string {
	lines := make([]string, m.panel.Extent())
	if len(lines) == 0 {
		return ""
	}
	width := m.width - 2
	for _, row := range m.panel.Rows() {
		style := ui.RowStyle(row.Style)
		caption := row.Caption
		if width > 0 {
			style = style.Width(width)
			caption = clip(caption, width-style.GetHorizontalPadding())
		}
		for i, line := range strings.Split(style.Render(caption), "\n") {
			if at := row.Offset + i; at >= 0 && at < len(lines) {
				lines[at] = " " + line
			}
		}
	}
	return strings.Join(lines, "\n")
}

// clip cuts every caption line to w cells so a row never wraps past the
// height the panel gave it.
func clip(caption string, w int) string {
	if w < 1 {
		return caption
	}
	lines := strings.Split(caption, "\n")
	for i, l := range lines {
		lines[i] = runewidth.Truncate(l, w, "…")
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	var b strings.Builder
	if m.selected && m.input.Value() != "" {
		b.WriteString("  " + m.input.Prompt + ui.StyleSelected.Render(m.input.Value()))
	} else {
		b.WriteString("  " + m.input.View())
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString("\n  Searching...")
	case m.panel.Len() == 0:
		b.WriteString("\n" + ui.StyleMuted.Render("  Type a number and press enter."))
	case m.ready:
		b.WriteString("\n" + m.viewport.View())
	}
	return b.String()
}
