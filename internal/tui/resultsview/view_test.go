package resultsview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/panel"
	"github.com/altinukshini/gridfind/internal/ui"
)

type sliceSource struct {
	matches []model.Match
}

func (s *sliceSource) Next() (model.Match, bool) {
	if len(s.matches) == 0 {
		return model.Match{}, false
	}
	m := s.matches[0]
	s.matches = s.matches[1:]
	return m, true
}

func source(values ...string) *sliceSource {
	s := &sliceSource{}
	for i, v := range values {
		s.matches = append(s.matches, model.Match{Value: v, Header: "amount", Row: i + 2, Col: 2})
	}
	return s
}

func newSized(policy panel.Policy, height int) Model {
	m := New(panel.New(panel.DefaultLayout, policy))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: height})
	return m
}

func TestRenderShowsRowsAndSelectsQuery(t *testing.T) {
	m := newSized(panel.ClearBeforeRender, 20)
	m.SetQuery("42")
	m.SetBusy(true)

	pass := m.Render("42", source("42", "42"))
	if pass.Found != 2 {
		t.Fatalf("expected 2 found, got %d", pass.Found)
	}
	if m.Busy() {
		t.Error("render should clear busy")
	}
	if !m.Selected() {
		t.Error("query should be selected after render")
	}
	if view := m.View(); !strings.Contains(view, "Found 42 on amount") {
		t.Errorf("view missing rows:\n%s", view)
	}
}

func TestTypingReplacesSelectedQuery(t *testing.T) {
	m := newSized(panel.ClearBeforeRender, 20)
	m.SetQuery("42")
	m.Render("42", source())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9")})
	if m.Query() != "9" {
		t.Fatalf("expected %q, got %q", "9", m.Query())
	}
	if m.Selected() {
		t.Error("selection should end after an edit")
	}

	// Once the selection is gone typing appends.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if m.Query() != "91" {
		t.Errorf("expected %q, got %q", "91", m.Query())
	}
}

func TestCursorKeyKeepsSelectedText(t *testing.T) {
	m := newSized(panel.ClearBeforeRender, 20)
	m.SetQuery("42")
	m.Render("42", source())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.Query() != "42" {
		t.Errorf("moving the cursor should keep the text, got %q", m.Query())
	}
}

func TestSubmitEmitsQuery(t *testing.T) {
	m := newSized(panel.ClearBeforeRender, 20)
	m.SetQuery(" 5 ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	msg, ok := cmd().(ui.SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", cmd())
	}
	if msg.Text != " 5 " {
		t.Errorf("submit should carry the raw text, got %q", msg.Text)
	}
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	m := newSized(panel.ClearBeforeRender, 20)
	m.SetQuery("5")
	m.SetBusy(true)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("submit should be ignored while a search runs")
	}
	if !strings.Contains(m.View(), "Searching...") {
		t.Error("busy view should say so")
	}
}

func TestAccumulateScrollsToNewRows(t *testing.T) {
	m := newSized(panel.Accumulate, 5)

	m.Render("1", source("1", "1", "1", "1", "1"))
	if m.viewport.YOffset != 0 {
		t.Fatalf("first pass should start at the top, got %d", m.viewport.YOffset)
	}

	m.Render("2", source("2"))
	rows := m.Panel().Rows()
	if got, want := m.viewport.YOffset, rows[len(rows)-1].Offset; got != want {
		t.Errorf("expected scroll to %d, got %d", want, got)
	}
}

func TestClear(t *testing.T) {
	m := newSized(panel.Accumulate, 20)
	m.Render("1", source("1"))
	m.Clear()

	if len(m.Captions()) != 0 {
		t.Errorf("expected no rows, got %v", m.Captions())
	}
	if !strings.Contains(m.View(), "Type a number") {
		t.Error("empty panel should show the prompt")
	}
}

func TestLongCaptionStaysOnItsRow(t *testing.T) {
	m := New(panel.New(panel.DefaultLayout, panel.ClearBeforeRender))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})

	m.Render("42", &sliceSource{matches: []model.Match{
		{Value: "42", Header: "Quarterly revenue adjusted for inflation and currency", Row: 2, Col: 2},
		{Value: "42", Header: "Second", Row: 3, Col: 2},
	}})

	rows := m.Panel().Rows()
	lines := strings.Split(m.renderRows(), "\n")
	if len(lines) != m.Panel().Extent() {
		t.Fatalf("expected %d canvas lines, got %d", m.Panel().Extent(), len(lines))
	}
	if !strings.Contains(lines[rows[0].Offset], "Found 42 on Quarterly") {
		t.Errorf("first row missing: %q", lines[rows[0].Offset])
	}
	if !strings.Contains(lines[rows[0].Offset], "…") {
		t.Errorf("long caption should be cut with an ellipsis: %q", lines[rows[0].Offset])
	}
	if gap := lines[rows[0].Offset+rows[0].Height]; strings.TrimSpace(gap) != "" {
		t.Errorf("gap line overwritten: %q", gap)
	}
	if !strings.Contains(lines[rows[1].Offset], "Found 42 on Second") {
		t.Errorf("second row missing: %q", lines[rows[1].Offset])
	}
}
