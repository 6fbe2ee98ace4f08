package ops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/store"
)

func TestPlanImport(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		page  string
		want  []ImportJob
	}{
		{
			name:  "single file to named page",
			files: []string{"data/june.csv"},
			page:  "Data",
			want:  []ImportJob{{Path: "data/june.csv", Page: "Data"}},
		},
		{
			name:  "single file without page",
			files: []string{"data/june.csv"},
			want:  []ImportJob{{Path: "data/june.csv", Page: "june"}},
		},
		{
			name:  "several files ignore page",
			files: []string{"june.csv", "july.tsv.csv"},
			page:  "Data",
			want:  []ImportJob{{Path: "june.csv", Page: "june"}, {Path: "july.tsv.csv", Page: "july.tsv"}},
		},
		{
			name: "no files",
			want: []ImportJob{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanImport(tt.files, tt.page)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlanImport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadCSVRagged(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("a,b,c\n1\n2, 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"a", "b", "c"}, {"1"}, {"2", "3"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("got %v, want %v", rows, want)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBulkImport(t *testing.T) {
	dir := t.TempDir()
	june := writeFile(t, dir, "june.csv", "id,amount\n1,42\n")
	july := writeFile(t, dir, "july.csv", "id,amount\n2,7\n3,9\n")

	book := store.NewMemory()
	book.SetPage("july", nil)

	var progress []int
	jobs := PlanImport([]string{june, july, filepath.Join(dir, "missing.csv")}, "")
	res, err := BulkImport(context.Background(), book, jobs, func(done, total int) {
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.Completed != 1 || res.Failed != 2 {
		t.Errorf("expected 1 completed and 2 failed, got %+v", res)
	}
	if res.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", res.Rows)
	}
	if !errors.Is(res.Errors[0], store.ErrNameTaken) {
		t.Errorf("expected name clash for july, got %v", res.Errors[0])
	}
	if !reflect.DeepEqual(progress, []int{1, 2, 3}) {
		t.Errorf("unexpected progress %v", progress)
	}

	text, _, err := book.Cell("june", model.Cell{Row: 2, Col: 2})
	if err != nil || text != "42" {
		t.Errorf("expected imported 42, got %q (%v)", text, err)
	}
}

func TestBulkImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := BulkImport(ctx, store.NewMemory(), []ImportJob{{Path: "x.csv", Page: "x"}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Completed+res.Failed != 0 {
		t.Error("no job should run after cancellation")
	}
}
