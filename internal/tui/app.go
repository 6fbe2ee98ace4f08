package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/gridfind/internal/config"
	"github.com/altinukshini/gridfind/internal/export"
	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/panel"
	"github.com/altinukshini/gridfind/internal/search"
	"github.com/altinukshini/gridfind/internal/store"
	"github.com/altinukshini/gridfind/internal/tui/dialog"
	"github.com/altinukshini/gridfind/internal/tui/resultsview"
	"github.com/altinukshini/gridfind/internal/ui"
)

const actionClose = "close"

type App struct {
	cfg    config.Config
	book   store.Workbook
	region model.Region
	search *search.Engine
	now    func() time.Time

	results resultsview.Model
	dialog  dialog.Model
	pending []export.Notice // notices waiting behind the open dialog

	width     int
	height    int
	status    string
	exporting bool
	showHelp  bool
}

func NewApp(cfg config.Config, book store.Workbook) (App, error) {
	region, err := cfg.ParsedRegion()
	if err != nil {
		return App{}, err
	}
	return App{
		cfg:     cfg,
		book:    book,
		region:  region,
		search:  search.New(),
		now:     time.Now,
		results: resultsview.New(panel.New(panel.DefaultLayout, cfg.Policy())),
		status:  "Ready",
	}, nil
}

// WithQuery pre-fills the query field.
func (a App) WithQuery(q string) App {
	a.results.SetQuery(q)
	return a
}

func (a App) Init() tea.Cmd {
	return a.results.Init()
}

func (a App) loadGrid(q search.Query) tea.Cmd {
	book, page, region := a.book, a.cfg.Page, a.region
	return func() tea.Msg {
		grid, err := book.ReadRegion(context.Background(), page, region)
		return ui.GridLoadedMsg{Query: q, Grid: grid, Err: err}
	}
}

// doExport captures the captions now so later searches cannot change what
// gets written.
func (a App) doExport() tea.Cmd {
	book, now := a.book, a.now
	captions := a.results.Captions()
	return func() tea.Msg {
		var notices export.NoticeLog
		svc := export.New(book, &notices, export.WithClock(now))
		res, err := svc.Export(context.Background(), captions)
		return ui.ExportDoneMsg{Result: res, Notices: notices.Notices, Err: err}
	}
}

// notify shows n now, or after the dialogs already queued.
func (a *App) notify(n export.Notice) {
	if a.dialog.IsActive() {
		a.pending = append(a.pending, n)
		return
	}
	a.dialog = dialog.Notice(n)
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Dialog result arrives after the dialog deactivates itself
	if res, ok := msg.(dialog.ResultMsg); ok {
		switch res.Kind {
		case dialog.KindNotice:
			if len(a.pending) > 0 {
				a.dialog = dialog.Notice(a.pending[0])
				a.pending = a.pending[1:]
			}
		case dialog.KindConfirm:
			if res.Confirmed && res.Action == actionClose {
				return &a, tea.Quit
			}
		}
		return &a, nil
	}

	if a.dialog.IsActive() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(keyMsg, ui.Keys.Quit) {
				return &a, tea.Quit
			}
			var cmd tea.Cmd
			a.dialog, cmd = a.dialog.Update(keyMsg)
			return &a, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ui.Keys.Quit):
			return &a, tea.Quit
		case key.Matches(msg, ui.Keys.Help):
			a.showHelp = !a.showHelp
			return &a, nil
		case a.showHelp:
			if key.Matches(msg, ui.Keys.Close) {
				a.showHelp = false
			}
			return &a, nil
		case key.Matches(msg, ui.Keys.Close):
			a.dialog = dialog.Confirm("Close gridfind", "Discard the result panel and exit?", actionClose)
			return &a, nil
		case key.Matches(msg, ui.Keys.Export):
			if a.exporting || a.results.Busy() {
				return &a, nil
			}
			a.exporting = true
			a.status = fmt.Sprintf("Exporting %d rows...", a.results.Panel().Len())
			return &a, a.doExport()
		case key.Matches(msg, ui.Keys.Clear):
			a.results.Clear()
			a.status = "Cleared"
			return &a, nil
		}

	case ui.SubmitMsg:
		// one store call at a time
		if a.exporting || a.results.Busy() {
			return &a, nil
		}
		q, err := search.ParseQuery(msg.Text)
		if err != nil {
			log.Debug().Err(err).Str("input", msg.Text).Msg("Rejected query")
			a.status = "Invalid query"
			a.notify(export.Notice{
				Level: export.LevelError,
				Title: "Invalid query",
				Text:  fmt.Sprintf("%q is not a number. Please enter a valid number.", strings.TrimSpace(msg.Text)),
			})
			return &a, nil
		}
		a.results.SetBusy(true)
		a.status = fmt.Sprintf("Searching %s for %s...", a.cfg.Target(), q.Text)
		return &a, a.loadGrid(q)

	case ui.GridLoadedMsg:
		if msg.Err != nil {
			a.results.SetBusy(false)
			a.status = "Search failed"
			a.notify(export.Notice{
				Level: export.LevelError,
				Title: "Could not read " + a.cfg.Target(),
				Text:  msg.Err.Error(),
			})
			return &a, nil
		}
		pass := a.results.Render(msg.Query.Text, a.search.Find(msg.Grid, msg.Query))
		log.Debug().
			Str("query", msg.Query.Text).
			Int("found", pass.Found).
			Int("extent", pass.Extent).
			Msg("Rendered search pass")
		if pass.Found == 0 {
			a.status = fmt.Sprintf("Number %s not found", msg.Query.Text)
		} else {
			rows := a.results.Panel().Rows()
			a.status = fmt.Sprintf("Found %d matches for %s (%s)", pass.Found, msg.Query.Text,
				headerCounts(rows[len(rows)-pass.Added:]))
		}
		return &a, nil

	case ui.ExportDoneMsg:
		a.exporting = false
		for _, n := range msg.Notices {
			a.notify(n)
		}
		if msg.Err != nil {
			log.Error().Err(msg.Err).Msg("Export failed")
			a.status = "Export failed"
			title := "Export failed"
			if errors.Is(msg.Err, store.ErrNameTaken) {
				title = "Export failed: page name in use"
			}
			a.notify(export.Notice{Level: export.LevelError, Title: title, Text: msg.Err.Error()})
			return &a, nil
		}
		a.status = fmt.Sprintf("Exported %d rows to %q", msg.Result.Rows, msg.Result.Page)
		return &a, nil

	case ui.StatusMsg:
		a.status = msg.Text
		return &a, nil
	}

	var cmd tea.Cmd
	a.results, cmd = a.results.Update(msg)
	return &a, cmd
}

// headerCounts summarizes matches per header column, e.g. "amount 2, note 1".
func headerCounts(rows []panel.Row) string {
	counts := make(map[string]int)
	for _, r := range rows {
		if r.Match != nil {
			counts[r.Match.Header]++
		}
	}
	parts := make([]string, 0, len(counts))
	for _, h := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s %d", h, counts[h]))
	}
	return strings.Join(parts, ", ")
}

func (a *App) propagateSize() {
	// header(1) + status(1) = 2 lines of chrome, pane border 2 more
	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}
	a.results, _ = a.results.Update(tea.WindowSizeMsg{Width: a.width - 2, Height: contentH})
}

// --- View ---

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := RenderHeader(a.cfg.Target(), a.cfg.Backend, a.results.Panel().Len(), a.width)

	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}
	var content string
	switch {
	case a.showHelp:
		content = a.renderHelp()
	case a.dialog.IsActive():
		content = lipgloss.Place(a.width, contentH+2, lipgloss.Center, lipgloss.Center, a.dialog.View())
	default:
		content = ui.StylePaneFocused.Width(a.width - 2).Height(contentH).Render(a.results.View())
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.results.Busy() || a.exporting, a.width)

	maxContentLines := a.height - 2
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			content = strings.Join(lines[:maxContentLines], "\n")
		}
	}
	return header + "\n" + content + "\n" + statusBar
}

func (a App) contextHints() string {
	switch {
	case a.dialog.IsActive() && a.dialog.Kind == dialog.KindConfirm:
		return "y:yes  n:no"
	case a.dialog.IsActive():
		return "enter:ok"
	case a.showHelp:
		return "esc:back"
	default:
		return "enter:search  ctrl+e:export  ctrl+l:clear  esc:close  f1:help"
	}
}

func (a App) renderHelp() string {
	bold := lipgloss.NewStyle().Bold(true)
	key := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + key.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Search") + "\n\n")
	b.WriteString(row("enter", "Find every cell equal to the number in "+a.cfg.Target()))
	b.WriteString(row("up / down", "Scroll results"))
	b.WriteString(row("pgup / pgdn", "Scroll a page"))
	b.WriteString(row("ctrl+l", "Clear results"))

	b.WriteString("\n" + bold.Render("  Export") + "\n\n")
	b.WriteString(row("ctrl+e", "Save the rows shown to a new \"Results <date>\" page"))

	b.WriteString("\n" + bold.Render("  General") + "\n\n")
	b.WriteString(row("esc", "Close the panel"))
	b.WriteString(row("f1", "Toggle this help"))
	b.WriteString(row("ctrl+c", "Quit"))

	mode := "each search replaces the previous results"
	if a.cfg.Accumulate {
		mode = "results accumulate across searches"
	}
	b.WriteString("\n" + ui.StyleMuted.Render("  Mode: "+mode) + "\n")
	return b.String()
}
