// Package export snapshots rendered result rows into a new workbook page.
//
// The page is named "Results yyyy-mm-dd". When that name is taken the page
// falls back to "Results yyyy-mm-dd (N)" where N is the new page's ordinal.
// Names are compared without regard to case, as spreadsheet hosts do.
// That fallback is tried once; it is not guaranteed unique if the same
// suffixed name already exists, and the resulting error is returned.
package export

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/store"
)

var ErrStoreFailure = errors.New("export failed")

const DefaultTitle = "Search Results"

// Workbook is the part of store.Workbook export needs.
type Workbook interface {
	Pages(ctx context.Context) ([]string, error)
	AddPage(ctx context.Context) (int, error)
	RenamePage(ctx context.Context, ordinal int, name string) error
	WriteCells(ctx context.Context, ordinal int, cells []model.CellValue) error
	AutoFitColumn(ctx context.Context, ordinal, col int) error
}

type Result struct {
	Page     string
	Ordinal  int
	Rows     int
	Collided bool
}

type Service struct {
	book   Workbook
	notify Notifier
	now    func() time.Time
	title  string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTitle(title string) Option {
	return func(s *Service) { s.title = title }
}

func New(book Workbook, notify Notifier, opts ...Option) *Service {
	s := &Service{book: book, notify: notify, now: time.Now, title: DefaultTitle}
	if s.notify == nil {
		s.notify = Discard
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseName is the page name an export made at t will try first.
func BaseName(t time.Time) string {
	return "Results " + t.Format("2006-01-02")
}

// Export writes a title plus one row per caption into a new page. captions
// may be empty; the title is still written.
func (s *Service) Export(ctx context.Context, captions []string) (Result, error) {
	base := BaseName(s.now())

	existing, err := s.book.Pages(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: list pages: %w", ErrStoreFailure, err)
	}
	collided := slices.ContainsFunc(existing, func(name string) bool {
		return strings.EqualFold(name, base)
	})

	ordinal, err := s.book.AddPage(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: add page: %w", ErrStoreFailure, err)
	}

	name := base
	if collided {
		name = fmt.Sprintf("%s (%d)", base, ordinal)
		s.notify.Notify(Notice{
			Level: LevelInfo,
			Title: "Page name in use",
			Text:  fmt.Sprintf("A page named %q already exists. The results will be saved as %q.", base, name),
		})
	}
	if err := s.book.RenamePage(ctx, ordinal, name); err != nil {
		return Result{}, fmt.Errorf("%w: name page %q: %w", ErrStoreFailure, name, err)
	}

	cells := make([]model.CellValue, 0, len(captions)+1)
	cells = append(cells, model.CellValue{Cell: model.Cell{Row: 1, Col: 1}, Text: s.title, Bold: true})
	for i, c := range captions {
		cells = append(cells, model.CellValue{Cell: model.Cell{Row: i + 2, Col: 1}, Text: c})
	}
	if err := s.book.WriteCells(ctx, ordinal, cells); err != nil {
		return Result{}, fmt.Errorf("%w: write %q: %w", ErrStoreFailure, name, err)
	}
	if err := s.book.AutoFitColumn(ctx, ordinal, 1); err != nil {
		return Result{}, fmt.Errorf("%w: fit %q: %w", ErrStoreFailure, name, err)
	}

	log.Debug().
		Str("page", name).
		Int("ordinal", ordinal).
		Int("rows", len(captions)).
		Bool("collided", collided).
		Msg("Exported results")

	s.notify.Notify(Notice{
		Level: LevelSuccess,
		Title: "Export complete",
		Text:  fmt.Sprintf("Saved %d result rows to %q.", len(captions), name),
	})
	return Result{Page: name, Ordinal: ordinal, Rows: len(captions), Collided: collided}, nil
}

var _ Workbook = store.Workbook(nil)
