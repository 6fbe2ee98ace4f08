package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/altinukshini/gridfind/internal/model"
)

// XLSX is a Workbook backed by an Excel file. Every mutation is saved
// before the call returns.
type XLSX struct {
	f    *excelize.File
	path string
	bold int
}

// OpenXLSX opens the workbook at path, creating it when it does not exist.
func OpenXLSX(path string) (*XLSX, error) {
	if path == "" {
		return nil, errors.New("xlsx store: path is required")
	}
	var f *excelize.File
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %s: %w", path, err)
		}
	} else {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	return &XLSX{f: f, path: path, bold: bold}, nil
}

func (x *XLSX) Close() error {
	return x.f.Close()
}

func (x *XLSX) sheetAt(ordinal int) (string, error) {
	sheets := x.f.GetSheetList()
	if ordinal < 1 || ordinal > len(sheets) {
		return "", fmt.Errorf("page #%d: %w", ordinal, ErrPageNotFound)
	}
	return sheets[ordinal-1], nil
}

func (x *XLSX) ReadRegion(_ context.Context, page string, region model.Region) (model.Grid, error) {
	if idx, _ := x.f.GetSheetIndex(page); idx < 0 {
		return model.Grid{}, fmt.Errorf("%s: %w", page, ErrPageNotFound)
	}
	rows, err := x.f.GetRows(page)
	if err != nil {
		return model.Grid{}, fmt.Errorf("read %s: %w", page, err)
	}
	g := newGrid(region)
	for r := region.Top; r <= region.Bottom && r <= len(rows); r++ {
		row := rows[r-1]
		for c := region.Left; c <= region.Right && c <= len(row); c++ {
			g.Rows[r-region.Top][c-region.Left] = row[c-1]
		}
	}
	return g, nil
}

func (x *XLSX) Pages(context.Context) ([]string, error) {
	return x.f.GetSheetList(), nil
}

func (x *XLSX) AddPage(context.Context) (int, error) {
	name := defaultPageName(x.f.GetSheetList())
	if _, err := x.f.NewSheet(name); err != nil {
		return 0, fmt.Errorf("add page: %w", err)
	}
	if err := x.f.Save(); err != nil {
		return 0, fmt.Errorf("save %s: %w", x.path, err)
	}
	ordinal := len(x.f.GetSheetList())
	log.Debug().Str("path", x.path).Int("ordinal", ordinal).Msg("Added xlsx page")
	return ordinal, nil
}

func (x *XLSX) RenamePage(_ context.Context, ordinal int, name string) error {
	current, err := x.sheetAt(ordinal)
	if err != nil {
		return err
	}
	if current == name {
		return nil
	}
	if idx, _ := x.f.GetSheetIndex(name); idx >= 0 {
		return fmt.Errorf("%q: %w", name, ErrNameTaken)
	}
	if err := x.f.SetSheetName(current, name); err != nil {
		return fmt.Errorf("rename page #%d: %w", ordinal, err)
	}
	return x.f.Save()
}

func (x *XLSX) WriteCells(_ context.Context, ordinal int, cells []model.CellValue) error {
	sheet, err := x.sheetAt(ordinal)
	if err != nil {
		return err
	}
	for _, c := range cells {
		ref, err := excelize.CoordinatesToCellName(c.Col, c.Row)
		if err != nil {
			return err
		}
		if err := x.f.SetCellValue(sheet, ref, c.Text); err != nil {
			return fmt.Errorf("write %s: %w", ref, err)
		}
		if c.Bold {
			if err := x.f.SetCellStyle(sheet, ref, ref, x.bold); err != nil {
				return fmt.Errorf("style %s: %w", ref, err)
			}
		}
	}
	return x.f.Save()
}

func (x *XLSX) AutoFitColumn(_ context.Context, ordinal, col int) error {
	sheet, err := x.sheetAt(ordinal)
	if err != nil {
		return err
	}
	rows, err := x.f.GetRows(sheet)
	if err != nil {
		return err
	}
	var texts []string
	for _, row := range rows {
		if col <= len(row) {
			texts = append(texts, row[col-1])
		}
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if err := x.f.SetColWidth(sheet, name, name, float64(textWidth(texts))); err != nil {
		return fmt.Errorf("fit column %s: %w", name, err)
	}
	return x.f.Save()
}

// Cell reports the text and boldness of a cell, for checks after export.
func (x *XLSX) Cell(page string, cell model.Cell) (string, bool, error) {
	ref := cell.String()
	text, err := x.f.GetCellValue(page, ref)
	if err != nil {
		return "", false, err
	}
	styleID, err := x.f.GetCellStyle(page, ref)
	if err != nil {
		return "", false, err
	}
	return text, styleID == x.bold, nil
}
