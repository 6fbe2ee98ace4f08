package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell addresses a single cell by 1-based row and column.
type Cell struct {
	Row int
	Col int
}

// String returns the A1 reference of the cell, e.g. "D10".
func (c Cell) String() string {
	return ColumnName(c.Col) + strconv.Itoa(c.Row)
}

// CellValue is a cell write: the text to store and whether it is bold.
type CellValue struct {
	Cell
	Text string
	Bold bool
}

// Region is an inclusive rectangle of cells. The first row is the header row.
type Region struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

func (r Region) Rows() int { return r.Bottom - r.Top + 1 }
func (r Region) Cols() int { return r.Right - r.Left + 1 }

func (r Region) String() string {
	return Cell{Row: r.Top, Col: r.Left}.String() + ":" + Cell{Row: r.Bottom, Col: r.Right}.String()
}

func (r Region) Validate() error {
	if r.Top < 1 || r.Left < 1 {
		return fmt.Errorf("region %s: rows and columns start at 1", r)
	}
	if r.Bottom < r.Top || r.Right < r.Left {
		return fmt.Errorf("region %s: end precedes start", r)
	}
	return nil
}

// ParseRegion parses an A1 range such as "B2:Z350".
func ParseRegion(s string) (Region, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Region{}, fmt.Errorf("region %q: expected <from>:<to>", s)
	}
	start, err := ParseCell(from)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	end, err := ParseCell(to)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	r := Region{Top: start.Row, Left: start.Col, Bottom: end.Row, Right: end.Col}
	return r, r.Validate()
}

// ParseCell parses an A1 cell reference. Column letters are case-insensitive.
func ParseCell(s string) (Cell, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := 0
	col := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(s) {
		return Cell{}, fmt.Errorf("invalid cell reference %q", s)
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return Cell{}, fmt.Errorf("invalid cell reference %q", s)
	}
	return Cell{Row: row, Col: col}, nil
}

// ColumnName converts a 1-based column index to its letters: 1 -> "A", 27 -> "AA".
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// Grid holds the values of a Region. Rows[0] is the header row; rows and
// cells missing from Rows read as empty.
type Grid struct {
	Region Region
	Rows   [][]string
}

// Value returns the text at a position relative to the region's top-left cell.
func (g Grid) Value(row, col int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	if col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col]
}

// Header returns the header label for a column relative to the region.
func (g Grid) Header(col int) string {
	return g.Value(0, col)
}
