package ops

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/altinukshini/gridfind/internal/store"
)

// ImportJob copies one CSV file into a new page.
type ImportJob struct {
	Path string
	Page string
}

// PlanImport names a page for every file. A single file goes to page when
// one is given; otherwise each page is named after its file.
func PlanImport(files []string, page string) []ImportJob {
	jobs := make([]ImportJob, 0, len(files))
	for _, f := range files {
		name := page
		if name == "" || len(files) > 1 {
			name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}
		jobs = append(jobs, ImportJob{Path: f, Page: name})
	}
	return jobs
}

// ReadCSV accepts ragged rows; short rows read as blank cells.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

type BulkImportResult struct {
	Completed int
	Failed    int
	Rows      int
	Errors    []error
}

// BulkImport runs jobs in order. A failed job is recorded and the rest still
// run; only cancellation stops early.
func BulkImport(ctx context.Context, book store.Workbook, jobs []ImportJob, onProgress func(completed, total int)) (*BulkImportResult, error) {
	result := &BulkImportResult{}
	total := len(jobs)

	for i, job := range jobs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		n, err := importFile(ctx, book, job)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", job.Path, err))
		} else {
			result.Completed++
			result.Rows += n
			log.Debug().Str("file", job.Path).Str("page", job.Page).Int("rows", n).Msg("Imported file")
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	return result, nil
}

func importFile(ctx context.Context, book store.Workbook, job ImportJob) (int, error) {
	f, err := os.Open(job.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return 0, err
	}
	if _, err := store.ImportRows(ctx, book, job.Page, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
