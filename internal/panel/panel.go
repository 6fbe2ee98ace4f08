// Package panel keeps the ordered list of rendered result rows and lays them
// out. It knows nothing about the terminal; views read Rows and Extent.
package panel

import (
	"fmt"
	"strings"

	"github.com/altinukshini/gridfind/internal/model"
)

type Style int

const (
	StylePrimary Style = iota
	StyleSecondary
	StyleAlert
)

func (s Style) String() string {
	switch s {
	case StylePrimary:
		return "primary"
	case StyleSecondary:
		return "secondary"
	case StyleAlert:
		return "alert"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Policy decides what happens to rows from earlier searches.
type Policy int

const (
	// ClearBeforeRender makes every search an independent pass.
	ClearBeforeRender Policy = iota
	// Accumulate keeps earlier rows, turning the panel into a running log.
	Accumulate
)

type Layout struct {
	Top       int // offset of the first row
	RowHeight int // height of one caption line
	Gap       int // space between consecutive rows
	Padding   int // space after the last row
}

var DefaultLayout = Layout{Top: 0, RowHeight: 1, Gap: 1, Padding: 2}

// Row is one rendered line of the panel.
type Row struct {
	Caption string
	Style   Style
	Offset  int
	Height  int
	Match   *model.Match // nil for the not-found row
}

// MatchSource is consumed one match at a time; search.Scan satisfies it.
type MatchSource interface {
	Next() (model.Match, bool)
}

// Pass describes the outcome of one Render call.
type Pass struct {
	Added       int
	Found       int
	Extent      int
	FocusQuery  bool
	SelectQuery bool
}

type Panel struct {
	layout Layout
	policy Policy
	rows   []Row
	extent int
}

func New(layout Layout, policy Policy) *Panel {
	p := &Panel{layout: layout, policy: policy}
	p.extent = p.computeExtent()
	return p
}

func (p *Panel) Policy() Policy { return p.policy }

// Render appends one row per match in the order received, or a single alert
// row when src yields nothing.
func (p *Panel) Render(queryText string, src MatchSource) Pass {
	if p.policy == ClearBeforeRender {
		p.rows = p.rows[:0]
	}

	pass := Pass{}
	for {
		m, ok := src.Next()
		if !ok {
			break
		}
		style := StylePrimary
		if pass.Added%2 == 1 {
			style = StyleSecondary
		}
		p.append(FoundCaption(m), style, &m)
		pass.Added++
		pass.Found++
	}
	if pass.Found == 0 {
		p.append(NotFoundCaption(queryText), StyleAlert, nil)
		pass.Added++
	}

	p.relayout()
	pass.Extent = p.extent
	pass.FocusQuery = true
	pass.SelectQuery = true
	return pass
}

func (p *Panel) append(caption string, style Style, m *model.Match) {
	p.rows = append(p.rows, Row{
		Caption: caption,
		Style:   style,
		Height:  p.heightOf(caption),
		Match:   m,
	})
}

// relayout places every row with Offsets and recomputes the extent.
func (p *Panel) relayout() {
	heights := make([]int, len(p.rows))
	for i, r := range p.rows {
		heights[i] = r.Height
	}
	for i, off := range Offsets(p.layout.Top, p.layout.Gap, heights) {
		p.rows[i].Offset = off
	}
	p.extent = p.computeExtent()
}

func (p *Panel) heightOf(caption string) int {
	return p.layout.RowHeight * (strings.Count(caption, "\n") + 1)
}

func (p *Panel) computeExtent() int {
	end := p.layout.Top
	if n := len(p.rows); n > 0 {
		last := p.rows[n-1]
		end = last.Offset + last.Height
	}
	return end + p.layout.Padding
}

// Rows returns a copy of the rendered rows in display order.
func (p *Panel) Rows() []Row {
	return append([]Row(nil), p.rows...)
}

// Captions returns the display text of every rendered row.
func (p *Panel) Captions() []string {
	out := make([]string, len(p.rows))
	for i, r := range p.rows {
		out[i] = r.Caption
	}
	return out
}

func (p *Panel) Len() int    { return len(p.rows) }
func (p *Panel) Extent() int { return p.extent }

// Reset drops every row regardless of policy.
func (p *Panel) Reset() {
	p.rows = nil
	p.extent = p.computeExtent()
}

func FoundCaption(m model.Match) string {
	return fmt.Sprintf("Found %s on %s", m.Value, m.Header)
}

func NotFoundCaption(query string) string {
	return fmt.Sprintf("Number %s not found.", query)
}

// Offsets lays out rows of the given heights starting at top.
func Offsets(top, gap int, heights []int) []int {
	out := make([]int, len(heights))
	next := top
	for i, h := range heights {
		out[i] = next
		next += h + gap
	}
	return out
}
