package search

import (
	"iter"
	"strconv"
	"strings"

	"github.com/altinukshini/gridfind/internal/model"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Find returns a cursor over every body cell of grid equal to q. The header
// row is never scanned.
func (e *Engine) Find(grid model.Grid, q Query) *Scan {
	width := grid.Region.Cols()
	body := grid.Region.Rows() - 1
	if width < 0 || body < 0 {
		width, body = 0, 0
	}
	return &Scan{grid: grid, query: q, width: width, cells: width * body}
}

// Search drains a scan and tallies matches per header.
func (e *Engine) Search(grid model.Grid, q Query) *model.SearchResults {
	results := &model.SearchResults{
		Query:        q.Text,
		HeaderCounts: make(map[string]int),
	}
	for m := range e.Find(grid, q).All() {
		results.Matches = append(results.Matches, m)
		results.HeaderCounts[m.Header]++
		results.TotalCount++
	}
	return results
}

// Scan walks the region with find / find-next semantics: it starts at the
// first matching cell in row-major order, advances one cell at a time with
// wraparound and stops when it comes back to that first cell. A Scan is
// single use.
type Scan struct {
	grid  model.Grid
	query Query
	width int
	cells int

	start   int
	pos     int
	started bool
	done    bool
}

// Next returns the next match. Once it reports false it always does.
func (s *Scan) Next() (model.Match, bool) {
	if s.done || s.cells == 0 {
		s.done = true
		return model.Match{}, false
	}
	if !s.started {
		s.started = true
		for p := 0; p < s.cells; p++ {
			if s.matches(p) {
				s.start, s.pos = p, p
				return s.matchAt(p), true
			}
		}
		s.done = true
		return model.Match{}, false
	}
	for step := 1; step <= s.cells; step++ {
		p := (s.pos + step) % s.cells
		if p == s.start {
			break
		}
		if s.matches(p) {
			s.pos = p
			return s.matchAt(p), true
		}
	}
	s.done = true
	return model.Match{}, false
}

// All yields the matches the scan has not produced yet.
func (s *Scan) All() iter.Seq[model.Match] {
	return func(yield func(model.Match) bool) {
		for {
			m, ok := s.Next()
			if !ok || !yield(m) {
				return
			}
		}
	}
}

// relative grid coordinates of linear position p; row 0 is the header
func (s *Scan) coords(p int) (int, int) {
	return 1 + p/s.width, p % s.width
}

func (s *Scan) matches(p int) bool {
	r, c := s.coords(p)
	return valueEquals(s.grid.Value(r, c), s.query)
}

func (s *Scan) matchAt(p int) model.Match {
	r, c := s.coords(p)
	return model.Match{
		Value:  strings.TrimSpace(s.grid.Value(r, c)),
		Header: s.grid.Header(c),
		Row:    s.grid.Region.Top + r,
		Col:    s.grid.Region.Left + c,
	}
}

// valueEquals is a whole-value, case-insensitive comparison. Numeric cells
// compare by value so "5.0" equals "5"; substrings never match.
func valueEquals(cell string, q Query) bool {
	v := strings.TrimSpace(cell)
	if v == "" {
		return false
	}
	if strings.EqualFold(v, q.Text) {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == q.Value
}
