package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/altinukshini/gridfind/internal/config"
	"github.com/altinukshini/gridfind/internal/export"
	"github.com/altinukshini/gridfind/internal/ops"
	"github.com/altinukshini/gridfind/internal/panel"
	"github.com/altinukshini/gridfind/internal/search"
	"github.com/altinukshini/gridfind/internal/store"
)

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find QUERY",
		Short: "Print the result rows for a number without opening the panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := store.Open(cmd.Context(), cfg.StoreOptions())
			if err != nil {
				return fmt.Errorf("open %s store: %w", cfg.Backend, err)
			}
			defer book.Close()

			res, err := runSearch(cmd.Context(), book, cfg, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
		},
	}
}

func newExportCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "export QUERY",
		Short: "Search for a number and save the result rows to a new page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := store.Open(cmd.Context(), cfg.StoreOptions())
			if err != nil {
				return fmt.Errorf("open %s store: %w", cfg.Backend, err)
			}
			defer book.Close()

			res, err := runSearch(cmd.Context(), book, cfg, args[0])
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res); err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			notify := export.NotifierFunc(func(n export.Notice) {
				fmt.Fprintf(errOut, "%s: %s\n", n.Title, n.Text)
			})
			svc := export.New(book, notify, export.WithTitle(title))
			_, err = svc.Export(cmd.Context(), res.panel.Captions())
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", export.DefaultTitle, "Bold title written above the rows")
	return cmd
}

func newImportCmd() *cobra.Command {
	var page string
	cmd := &cobra.Command{
		Use:   "import FILE.csv...",
		Short: "Copy CSV files into new pages of the store",
		Long: `Copy CSV files into new pages of the store. A single file goes to --page
(or the configured page); with several files each page is named after its file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := store.Open(cmd.Context(), cfg.StoreOptions())
			if err != nil {
				return fmt.Errorf("open %s store: %w", cfg.Backend, err)
			}
			defer book.Close()

			if page == "" && len(args) == 1 {
				page = cfg.Page
			}
			jobs := ops.PlanImport(args, page)
			out := cmd.OutOrStdout()
			res, err := ops.BulkImport(cmd.Context(), book, jobs, func(completed, total int) {
				job := jobs[completed-1]
				fmt.Fprintf(out, "[%d/%d] %s -> %q\n", completed, total, job.Path, job.Page)
			})
			if err != nil {
				return err
			}
			log.Info().Int("files", res.Completed).Int("rows", res.Rows).Msg("Imported CSV")
			fmt.Fprintf(out, "Imported %d rows from %d files\n", res.Rows, res.Completed)
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d imports failed: %w", res.Failed, len(jobs), errors.Join(res.Errors...))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "Name of the new page when importing one file")
	return cmd
}

type searchResult struct {
	query   search.Query
	panel   *panel.Panel
	pass    panel.Pass
	summary *searchSummary
}

type searchSummary struct {
	total   int
	headers map[string]int
}

// runSearch does what one submit in the panel does: validate, read the
// region, scan and render.
func runSearch(ctx context.Context, book store.Workbook, c config.Config, text string) (searchResult, error) {
	q, err := search.ParseQuery(text)
	if err != nil {
		return searchResult{}, err
	}
	region, err := c.ParsedRegion()
	if err != nil {
		return searchResult{}, err
	}
	grid, err := book.ReadRegion(ctx, c.Page, region)
	if err != nil {
		return searchResult{}, fmt.Errorf("read %s: %w", c.Target(), err)
	}

	engine := search.New()
	p := panel.New(panel.DefaultLayout, panel.ClearBeforeRender)
	pass := p.Render(q.Text, engine.Find(grid, q))

	totals := engine.Search(grid, q)
	log.Debug().Str("query", q.Text).Int("found", pass.Found).Msg("Searched region")
	return searchResult{
		query:   q,
		panel:   p,
		pass:    pass,
		summary: &searchSummary{total: totals.TotalCount, headers: totals.HeaderCounts},
	}, nil
}

func printResult(out, errOut io.Writer, res searchResult) error {
	t := term.FromEnv()
	isTTY := t.IsTerminalOutput()
	width := 80
	if isTTY {
		if w, _, err := t.Size(); err == nil {
			width = w
		}
	}
	if f, ok := out.(*os.File); !ok || f != os.Stdout {
		isTTY = false
	}

	tp := tableprinter.New(out, isTTY, width)
	tp.AddHeader([]string{"OFFSET", "STYLE", "CELL", "CAPTION"})
	for _, row := range res.panel.Rows() {
		cell := ""
		if row.Match != nil {
			cell = row.Match.Address()
		}
		tp.AddField(strconv.Itoa(row.Offset))
		tp.AddField(row.Style.String())
		tp.AddField(cell)
		tp.AddField(row.Caption)
		tp.EndRow()
	}
	if err := tp.Render(); err != nil {
		return err
	}

	fmt.Fprintln(errOut, summaryLine(res))
	return nil
}

func summaryLine(res searchResult) string {
	if res.summary.total == 0 {
		return fmt.Sprintf("No cells equal %s", res.query.Text)
	}
	parts := make([]string, 0, len(res.summary.headers))
	for _, h := range slices.Sorted(maps.Keys(res.summary.headers)) {
		parts = append(parts, fmt.Sprintf("%s %d", h, res.summary.headers[h]))
	}
	return fmt.Sprintf("%d cells equal %s (%s), scroll extent %d",
		res.summary.total, res.query.Text, strings.Join(parts, ", "), res.pass.Extent)
}
