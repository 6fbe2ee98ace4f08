package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/altinukshini/gridfind/internal/model"
)

// Sheets is a Workbook backed by a Google Sheets spreadsheet.
type Sheets struct {
	service       *sheets.Service
	spreadsheetID string
}

func OpenSheets(ctx context.Context, credentialsFile, spreadsheetID string) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, errors.New("sheets store: spreadsheet id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Sheets{service: service, spreadsheetID: spreadsheetID}, nil
}

func (s *Sheets) Close() error { return nil }

func (s *Sheets) properties(ctx context.Context) ([]*sheets.SheetProperties, error) {
	resp, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	props := make([]*sheets.SheetProperties, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		props = append(props, sh.Properties)
	}
	return props, nil
}

func (s *Sheets) sheetAt(ctx context.Context, ordinal int) (*sheets.SheetProperties, []*sheets.SheetProperties, error) {
	props, err := s.properties(ctx)
	if err != nil {
		return nil, nil, err
	}
	if ordinal < 1 || ordinal > len(props) {
		return nil, nil, fmt.Errorf("page #%d: %w", ordinal, ErrPageNotFound)
	}
	return props[ordinal-1], props, nil
}

func (s *Sheets) batchUpdate(ctx context.Context, reqs ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
}

func (s *Sheets) ReadRegion(ctx context.Context, page string, region model.Region) (model.Grid, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, a1Range(page, region.String())).
		Context(ctx).
		Do()
	if err != nil {
		return model.Grid{}, fmt.Errorf("failed to read sheet: %w", err)
	}
	g := newGrid(region)
	for r, row := range resp.Values {
		if r >= len(g.Rows) {
			break
		}
		for c, v := range row {
			if c >= len(g.Rows[r]) || v == nil {
				continue
			}
			g.Rows[r][c] = fmt.Sprintf("%v", v)
		}
	}
	log.Debug().Str("page", page).Int("rows", len(resp.Values)).Msg("Read sheet region")
	return g, nil
}

func (s *Sheets) Pages(ctx context.Context) ([]string, error) {
	props, err := s.properties(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Title
	}
	return names, nil
}

func (s *Sheets) AddPage(ctx context.Context) (int, error) {
	names, err := s.Pages(ctx)
	if err != nil {
		return 0, err
	}
	resp, err := s.batchUpdate(ctx, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: defaultPageName(names),
				Index: int64(len(names)),
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add sheet: %w", err)
	}
	ordinal := len(names) + 1
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		ordinal = int(resp.Replies[0].AddSheet.Properties.Index) + 1
	}
	return ordinal, nil
}

func (s *Sheets) RenamePage(ctx context.Context, ordinal int, name string) error {
	target, props, err := s.sheetAt(ctx, ordinal)
	if err != nil {
		return err
	}
	for _, p := range props {
		if p.Title == name && p.SheetId != target.SheetId {
			return fmt.Errorf("%q: %w", name, ErrNameTaken)
		}
	}
	_, err = s.batchUpdate(ctx, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{SheetId: target.SheetId, Title: name},
			Fields:     "title",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	return nil
}

func (s *Sheets) WriteCells(ctx context.Context, ordinal int, cells []model.CellValue) error {
	target, _, err := s.sheetAt(ctx, ordinal)
	if err != nil {
		return err
	}
	data := make([]*sheets.ValueRange, 0, len(cells))
	var reqs []*sheets.Request
	for _, c := range cells {
		data = append(data, &sheets.ValueRange{
			Range:  a1Range(target.Title, c.Cell.String()),
			Values: [][]interface{}{{c.Text}},
		})
		if c.Bold {
			reqs = append(reqs, boldRequest(target.SheetId, c.Cell))
		}
	}
	if len(data) > 0 {
		_, err = s.service.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             data,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update values: %w", err)
		}
	}
	if len(reqs) > 0 {
		if _, err := s.batchUpdate(ctx, reqs...); err != nil {
			return fmt.Errorf("failed to format cells: %w", err)
		}
	}
	return nil
}

func (s *Sheets) AutoFitColumn(ctx context.Context, ordinal, col int) error {
	target, _, err := s.sheetAt(ctx, ordinal)
	if err != nil {
		return err
	}
	_, err = s.batchUpdate(ctx, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    target.SheetId,
				Dimension:  "COLUMNS",
				StartIndex: int64(col - 1),
				EndIndex:   int64(col),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to resize column: %w", err)
	}
	return nil
}

func boldRequest(sheetID int64, cell model.Cell) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    int64(cell.Row - 1),
				EndRowIndex:      int64(cell.Row),
				StartColumnIndex: int64(cell.Col - 1),
				EndColumnIndex:   int64(cell.Col),
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{Bold: true},
				},
			},
			Fields: "userEnteredFormat.textFormat.bold",
		},
	}
}

// a1Range quotes a sheet title for use in an A1 range.
func a1Range(title, ref string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + ref
}
