package panel

import (
	"testing"

	"github.com/altinukshini/gridfind/internal/model"
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

func source(ms ...model.Match) *sliceSource {
	return &sliceSource{matches: ms}
}

func TestRenderAlternatesStyles(t *testing.T) {
	p := New(DefaultLayout, ClearBeforeRender)
	pass := p.Render("5", source(
		model.Match{Value: "5", Header: "Qty"},
		model.Match{Value: "5", Header: "Qty"},
		model.Match{Value: "5", Header: "Price"},
		model.Match{Value: "5", Header: "Qty"},
	))

	if pass.Added != 4 || pass.Found != 4 {
		t.Fatalf("pass = %+v, want 4 added and found", pass)
	}
	want := []Style{StylePrimary, StyleSecondary, StylePrimary, StyleSecondary}
	for i, r := range p.Rows() {
		if r.Style != want[i] {
			t.Errorf("row %d style = %v, want %v", i, r.Style, want[i])
		}
	}
	if got := p.Rows()[2].Caption; got != "Found 5 on Price" {
		t.Errorf("caption = %q", got)
	}
}

func TestRenderNotFound(t *testing.T) {
	p := New(DefaultLayout, ClearBeforeRender)
	pass := p.Render("42", source())

	if p.Len() != 1 || pass.Found != 0 || pass.Added != 1 {
		t.Fatalf("rows = %d, pass = %+v; want a single row", p.Len(), pass)
	}
	row := p.Rows()[0]
	if row.Style != StyleAlert {
		t.Errorf("style = %v, want alert", row.Style)
	}
	if row.Caption != "Number 42 not found." {
		t.Errorf("caption = %q", row.Caption)
	}
	if row.Match != nil {
		t.Error("not-found row should carry no match")
	}
}

func TestRenderLayout(t *testing.T) {
	layout := Layout{Top: 3, RowHeight: 2, Gap: 1, Padding: 5}
	p := New(layout, ClearBeforeRender)
	pass := p.Render("1", source(
		model.Match{Value: "1", Header: "A"},
		model.Match{Value: "1", Header: "B"},
		model.Match{Value: "1", Header: "C"},
	))

	wantOffsets := []int{3, 6, 9}
	for i, r := range p.Rows() {
		if r.Offset != wantOffsets[i] {
			t.Errorf("row %d offset = %d, want %d", i, r.Offset, wantOffsets[i])
		}
		if r.Height != 2 {
			t.Errorf("row %d height = %d, want 2", i, r.Height)
		}
	}
	// last offset 9 + height 2 + padding 5
	if pass.Extent != 16 || p.Extent() != 16 {
		t.Errorf("extent = %d/%d, want 16", pass.Extent, p.Extent())
	}
	if !pass.FocusQuery || !pass.SelectQuery {
		t.Error("a pass should return focus to the query with its text selected")
	}
}

func TestRenderClearBeforeRender(t *testing.T) {
	p := New(DefaultLayout, ClearBeforeRender)
	p.Render("1", source(model.Match{Value: "1", Header: "A"}, model.Match{Value: "1", Header: "B"}))
	p.Render("2", source())

	if p.Len() != 1 {
		t.Fatalf("rows = %d, want 1", p.Len())
	}
	if p.Rows()[0].Offset != DefaultLayout.Top {
		t.Errorf("offset = %d, want layout top", p.Rows()[0].Offset)
	}
}

func TestRenderAccumulate(t *testing.T) {
	p := New(DefaultLayout, Accumulate)
	p.Render("1", source(model.Match{Value: "1", Header: "A"}))
	p.Render("2", source(model.Match{Value: "2", Header: "B"}, model.Match{Value: "2", Header: "C"}))

	rows := p.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// alternation restarts with each pass
	if rows[1].Style != StylePrimary || rows[2].Style != StyleSecondary {
		t.Errorf("styles = %v, %v; want primary, secondary", rows[1].Style, rows[2].Style)
	}
	if rows[1].Offset != rows[0].Offset+rows[0].Height+DefaultLayout.Gap {
		t.Errorf("second pass should continue below earlier rows, got offset %d", rows[1].Offset)
	}
}

func TestCaptionsAndReset(t *testing.T) {
	p := New(DefaultLayout, Accumulate)
	p.Render("3", source())
	p.Render("4", source(model.Match{Value: "4", Header: "Age"}))

	got := p.Captions()
	want := []string{"Number 3 not found.", "Found 4 on Age"}
	if len(got) != len(want) {
		t.Fatalf("captions = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("caption %d = %q, want %q", i, got[i], want[i])
		}
	}

	p.Reset()
	if p.Len() != 0 || p.Extent() != DefaultLayout.Top+DefaultLayout.Padding {
		t.Errorf("after Reset: len %d extent %d", p.Len(), p.Extent())
	}
}

func TestOffsets(t *testing.T) {
	got := Offsets(0, 1, []int{1, 2, 1})
	want := []int{0, 2, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Offsets()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRenderPlacesMultiLineRows(t *testing.T) {
	p := New(Layout{Top: 1, RowHeight: 1, Gap: 1, Padding: 2}, Accumulate)
	p.Render("7", source(
		model.Match{Value: "7", Header: "Net\namount"},
		model.Match{Value: "7", Header: "Qty"},
	))
	p.Render("8", source(model.Match{Value: "8", Header: "Qty"}))

	rows := p.Rows()
	heights := make([]int, len(rows))
	for i, r := range rows {
		heights[i] = r.Height
	}
	want := Offsets(1, 1, heights)
	for i, r := range rows {
		if r.Offset != want[i] {
			t.Errorf("row %d offset = %d, want %d", i, r.Offset, want[i])
		}
	}
	if rows[0].Height != 2 || rows[1].Offset != 4 {
		t.Errorf("first row height %d, second offset %d; want 2 and 4", rows[0].Height, rows[1].Offset)
	}
	if last := rows[len(rows)-1]; p.Extent() != last.Offset+last.Height+2 {
		t.Errorf("extent = %d", p.Extent())
	}
}
