package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/panel"
	"github.com/altinukshini/gridfind/internal/search"
	"github.com/altinukshini/gridfind/internal/store"
)

var day = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return day }

func readColumn(t *testing.T, book *store.Memory, page string, rows int) []string {
	t.Helper()
	grid, err := book.ReadRegion(context.Background(), page, model.Region{Top: 1, Left: 1, Bottom: rows, Right: 1})
	require.NoError(t, err)
	out := make([]string, rows)
	for i := range out {
		out[i] = grid.Value(i, 0)
	}
	return out
}

func TestExportWritesTitleAndRows(t *testing.T) {
	book := store.NewMemory()
	book.SetPage("Data", nil)
	var notices NoticeLog

	svc := New(book, &notices, WithClock(fixedClock))
	res, err := svc.Export(context.Background(), []string{"Found 42 on Qty", "Found 42 on Price"})
	require.NoError(t, err)

	assert.Equal(t, "Results 2026-10-19", res.Page)
	assert.Equal(t, 2, res.Ordinal)
	assert.Equal(t, 2, res.Rows)
	assert.False(t, res.Collided)

	assert.Equal(t, []string{DefaultTitle, "Found 42 on Qty", "Found 42 on Price"}, readColumn(t, book, res.Page, 3))
	_, bold, err := book.Cell(res.Page, model.Cell{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.True(t, bold, "title cell should be bold")
	assert.Greater(t, book.ColumnWidth(res.Page, 1), len("Found 42 on Price"))

	require.Len(t, notices.Notices, 1)
	assert.Equal(t, LevelSuccess, notices.Notices[0].Level)
}

func TestExportEmptyWritesTitle(t *testing.T) {
	book := store.NewMemory()
	res, err := New(book, nil, WithClock(fixedClock), WithTitle("Matches")).Export(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
	assert.Equal(t, []string{"Matches", ""}, readColumn(t, book, res.Page, 2))
}

func TestExportTwiceSameDay(t *testing.T) {
	book := store.NewMemory()
	book.SetPage("Data", nil)
	var notices NoticeLog
	svc := New(book, &notices, WithClock(fixedClock))
	captions := []string{"Found 5 on A", "Found 5 on C"}

	first, err := svc.Export(context.Background(), captions)
	require.NoError(t, err)
	second, err := svc.Export(context.Background(), captions)
	require.NoError(t, err)

	assert.Equal(t, "Results 2026-10-19", first.Page)
	assert.Equal(t, "Results 2026-10-19 (3)", second.Page)
	assert.True(t, second.Collided)
	assert.Equal(t, readColumn(t, book, first.Page, 3), readColumn(t, book, second.Page, 3))

	// success, then collision info and success
	require.Len(t, notices.Notices, 3)
	assert.Equal(t, LevelInfo, notices.Notices[1].Level)
	assert.Contains(t, notices.Notices[1].Text, "Results 2026-10-19 (3)")
}

func TestExportCollisionIgnoresCase(t *testing.T) {
	book := store.NewMemory()
	book.SetPage("results 2026-10-19", nil)
	var notices NoticeLog

	res, err := New(book, &notices, WithClock(fixedClock)).Export(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.True(t, res.Collided)
	assert.Equal(t, "Results 2026-10-19 (2)", res.Page)
	require.Len(t, notices.Notices, 2)
	assert.Equal(t, LevelInfo, notices.Notices[0].Level)
}

func TestExportSecondLevelCollisionFails(t *testing.T) {
	book := store.NewMemory()
	book.SetPage("Results 2026-10-19", nil)
	book.SetPage("Results 2026-10-19 (3)", nil)

	_, err := New(book, nil, WithClock(fixedClock)).Export(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, store.ErrNameTaken)
}

type failingBook struct {
	*store.Memory
	writeErr error
}

func (f failingBook) WriteCells(context.Context, int, []model.CellValue) error {
	return f.writeErr
}

func TestExportStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	book := failingBook{Memory: store.NewMemory(), writeErr: boom}
	var notices NoticeLog

	_, err := New(book, &notices, WithClock(fixedClock)).Export(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, notices.Notices, "no success notice on failure")
}

func TestExportIsProjectionOfRenderedRows(t *testing.T) {
	ctx := context.Background()
	book := store.NewMemory()
	book.SetPage("Data", [][]string{
		{"ID", "Qty"},
		{"1", "42"},
		{"2", "9"},
	})
	region := model.Region{Top: 1, Left: 1, Bottom: 3, Right: 2}
	grid, err := book.ReadRegion(ctx, "Data", region)
	require.NoError(t, err)

	q, err := search.ParseQuery("42")
	require.NoError(t, err)
	p := panel.New(panel.DefaultLayout, panel.ClearBeforeRender)
	p.Render(q.Text, search.New().Find(grid, q))

	// the store changes after rendering; export must not see it
	require.NoError(t, book.SetCell("Data", model.Cell{Row: 3, Col: 2}, "42"))

	res, err := New(book, nil, WithClock(fixedClock)).Export(ctx, p.Captions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, []string{DefaultTitle, "Found 42 on Qty", ""}, readColumn(t, book, res.Page, 3))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Results 2026-01-02", BaseName(time.Date(2026, 1, 2, 23, 59, 0, 0, time.Local)))
}
