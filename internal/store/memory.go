package store

import (
	"context"
	"fmt"

	"github.com/altinukshini/gridfind/internal/model"
)

type memCell struct {
	text string
	bold bool
}

type memPage struct {
	name   string
	cells  map[model.Cell]memCell
	widths map[int]int
}

// Memory is a Workbook held entirely in process. It backs tests and the
// "memory" backend.
type Memory struct {
	pages []*memPage
}

func NewMemory() *Memory {
	return &Memory{}
}

// SetPage creates or replaces a page with rows starting at A1.
func (m *Memory) SetPage(name string, rows [][]string) {
	p := m.find(name)
	if p == nil {
		p = &memPage{name: name}
		m.pages = append(m.pages, p)
	}
	p.cells = make(map[model.Cell]memCell)
	p.widths = make(map[int]int)
	for r, row := range rows {
		for c, text := range row {
			p.cells[model.Cell{Row: r + 1, Col: c + 1}] = memCell{text: text}
		}
	}
}

// SetCell overwrites a single cell on an existing page.
func (m *Memory) SetCell(name string, cell model.Cell, text string) error {
	p := m.find(name)
	if p == nil {
		return fmt.Errorf("%s: %w", name, ErrPageNotFound)
	}
	p.cells[cell] = memCell{text: text}
	return nil
}

// Cell reports the text and boldness of a cell.
func (m *Memory) Cell(name string, cell model.Cell) (string, bool, error) {
	p := m.find(name)
	if p == nil {
		return "", false, fmt.Errorf("%s: %w", name, ErrPageNotFound)
	}
	c := p.cells[cell]
	return c.text, c.bold, nil
}

// ColumnWidth reports the width set by AutoFitColumn, 0 if never fitted.
func (m *Memory) ColumnWidth(name string, col int) int {
	if p := m.find(name); p != nil {
		return p.widths[col]
	}
	return 0
}

func (m *Memory) find(name string) *memPage {
	for _, p := range m.pages {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (m *Memory) at(ordinal int) (*memPage, error) {
	if ordinal < 1 || ordinal > len(m.pages) {
		return nil, fmt.Errorf("page #%d: %w", ordinal, ErrPageNotFound)
	}
	return m.pages[ordinal-1], nil
}

func (m *Memory) ReadRegion(_ context.Context, page string, region model.Region) (model.Grid, error) {
	p := m.find(page)
	if p == nil {
		return model.Grid{}, fmt.Errorf("%s: %w", page, ErrPageNotFound)
	}
	g := newGrid(region)
	for cell, v := range p.cells {
		if cell.Row < region.Top || cell.Row > region.Bottom || cell.Col < region.Left || cell.Col > region.Right {
			continue
		}
		g.Rows[cell.Row-region.Top][cell.Col-region.Left] = v.text
	}
	return g, nil
}

func (m *Memory) Pages(context.Context) ([]string, error) {
	names := make([]string, len(m.pages))
	for i, p := range m.pages {
		names[i] = p.name
	}
	return names, nil
}

func (m *Memory) AddPage(ctx context.Context) (int, error) {
	names, _ := m.Pages(ctx)
	m.pages = append(m.pages, &memPage{
		name:   defaultPageName(names),
		cells:  make(map[model.Cell]memCell),
		widths: make(map[int]int),
	})
	return len(m.pages), nil
}

func (m *Memory) RenamePage(_ context.Context, ordinal int, name string) error {
	p, err := m.at(ordinal)
	if err != nil {
		return err
	}
	if other := m.find(name); other != nil && other != p {
		return fmt.Errorf("%q: %w", name, ErrNameTaken)
	}
	p.name = name
	return nil
}

func (m *Memory) WriteCells(_ context.Context, ordinal int, cells []model.CellValue) error {
	p, err := m.at(ordinal)
	if err != nil {
		return err
	}
	for _, c := range cells {
		p.cells[c.Cell] = memCell{text: c.Text, bold: c.Bold}
	}
	return nil
}

func (m *Memory) AutoFitColumn(_ context.Context, ordinal, col int) error {
	p, err := m.at(ordinal)
	if err != nil {
		return err
	}
	var texts []string
	for cell, v := range p.cells {
		if cell.Col == col {
			texts = append(texts, v.text)
		}
	}
	p.widths[col] = textWidth(texts)
	return nil
}

func (m *Memory) Close() error { return nil }
