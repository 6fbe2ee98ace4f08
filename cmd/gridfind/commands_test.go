package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/gridfind/internal/config"
	"github.com/altinukshini/gridfind/internal/ops"
	"github.com/altinukshini/gridfind/internal/search"
	"github.com/altinukshini/gridfind/internal/store"
)

func seeded(t *testing.T) (*store.Memory, config.Config) {
	t.Helper()
	rows, err := ops.ReadCSV(strings.NewReader("id,amount,note\n1,42,x\n2,7\n3, 42,y\n"))
	require.NoError(t, err)

	book := store.NewMemory()
	_, err = store.ImportRows(context.Background(), book, "Data", rows)
	require.NoError(t, err)
	return book, config.Config{Backend: store.BackendMemory, Page: "Data", Region: "A1:C4"}
}

func TestRunSearch(t *testing.T) {
	book, cfg := seeded(t)

	res, err := runSearch(context.Background(), book, cfg, "42")
	require.NoError(t, err)
	assert.Equal(t, 2, res.pass.Found)
	assert.Equal(t, []string{"Found 42 on amount", "Found 42 on amount"}, res.panel.Captions())
	assert.Equal(t, map[string]int{"amount": 2}, res.summary.headers)
}

func TestRunSearchRejectsText(t *testing.T) {
	book, cfg := seeded(t)

	_, err := runSearch(context.Background(), book, cfg, "forty")
	assert.ErrorIs(t, err, search.ErrInvalidQuery)
}

func TestRunSearchMissingPage(t *testing.T) {
	book, cfg := seeded(t)
	cfg.Page = "Nope"

	_, err := runSearch(context.Background(), book, cfg, "1")
	assert.ErrorIs(t, err, store.ErrPageNotFound)
}

func TestPrintResult(t *testing.T) {
	book, cfg := seeded(t)
	res, err := runSearch(context.Background(), book, cfg, "42")
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	require.NoError(t, printResult(&out, &errOut, res))

	assert.Contains(t, out.String(), "B2")
	assert.Contains(t, out.String(), "Found 42 on amount")
	assert.Contains(t, out.String(), "secondary")
	assert.Equal(t, "2 cells equal 42 (amount 2), scroll extent 5\n", errOut.String())
}

func TestSummaryNotFound(t *testing.T) {
	book, cfg := seeded(t)
	res, err := runSearch(context.Background(), book, cfg, "99")
	require.NoError(t, err)

	assert.Equal(t, []string{"Number 99 not found."}, res.panel.Captions())
	assert.Equal(t, "No cells equal 99", summaryLine(res))
}
