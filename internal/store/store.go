// Package store adapts tabular hosts (SQLite files, xlsx workbooks, Google
// Sheets) to the Workbook contract used by search and export.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/altinukshini/gridfind/internal/model"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrNameTaken    = errors.New("page name already in use")
)

// Workbook is an ordered set of named pages. Ordinals are 1-based positions
// in Pages order.
type Workbook interface {
	ReadRegion(ctx context.Context, page string, region model.Region) (model.Grid, error)
	Pages(ctx context.Context) ([]string, error)
	// AddPage appends a page with a default name and returns its ordinal.
	AddPage(ctx context.Context) (int, error)
	// RenamePage fails with ErrNameTaken when another page has name.
	RenamePage(ctx context.Context, ordinal int, name string) error
	WriteCells(ctx context.Context, ordinal int, cells []model.CellValue) error
	AutoFitColumn(ctx context.Context, ordinal, col int) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
)

type Options struct {
	Backend         string
	Path            string
	SpreadsheetID   string
	CredentialsFile string
}

// Open connects to the backend named in opts.
func Open(ctx context.Context, opts Options) (Workbook, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite, "":
		return OpenSQLite(opts.Path)
	case BackendXLSX:
		return OpenXLSX(opts.Path)
	case BackendSheets:
		return OpenSheets(ctx, opts.CredentialsFile, opts.SpreadsheetID)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// ImportRows writes rows into a new page called name, row 1 first.
func ImportRows(ctx context.Context, book Workbook, name string, rows [][]string) (int, error) {
	pages, err := book.Pages(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range pages {
		if p == name {
			return 0, fmt.Errorf("import %q: %w", name, ErrNameTaken)
		}
	}
	ordinal, err := book.AddPage(ctx)
	if err != nil {
		return 0, fmt.Errorf("import %q: %w", name, err)
	}
	if err := book.RenamePage(ctx, ordinal, name); err != nil {
		return 0, fmt.Errorf("import %q: %w", name, err)
	}
	var cells []model.CellValue
	for r, row := range rows {
		for c, text := range row {
			if text == "" {
				continue
			}
			cells = append(cells, model.CellValue{Cell: model.Cell{Row: r + 1, Col: c + 1}, Text: text})
		}
	}
	if err := book.WriteCells(ctx, ordinal, cells); err != nil {
		return 0, fmt.Errorf("import %q: %w", name, err)
	}
	return ordinal, nil
}

// defaultPageName picks the first "SheetN" not already in names, the way
// spreadsheet hosts name fresh pages.
func defaultPageName(names []string) string {
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	for i := len(names) + 1; ; i++ {
		name := fmt.Sprintf("Sheet%d", i)
		if !taken[name] {
			return name
		}
	}
}

// newGrid sizes an empty grid for region; callers fill in Rows.
func newGrid(region model.Region) model.Grid {
	rows := make([][]string, region.Rows())
	for i := range rows {
		rows[i] = make([]string, region.Cols())
	}
	return model.Grid{Region: region, Rows: rows}
}

// textWidth is the column width that fits the longest text, in characters.
func textWidth(texts []string) int {
	w := 0
	for _, t := range texts {
		for _, line := range strings.Split(t, "\n") {
			if n := runewidth.StringWidth(line); n > w {
				w = n
			}
		}
	}
	return w + 2
}
