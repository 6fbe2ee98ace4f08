package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/gridfind/internal/model"
)

// SQLite keeps pages and their cells in a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path, creating parent
// directories as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite store: path is required")
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open SQLite database: %w", err)
	}
	return newSQLite(db)
}

// NewSQLiteInMemory creates a private in-memory database.
func NewSQLiteInMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("create in-memory SQLite: %w", err)
	}
	// every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	return newSQLite(db)
}

func newSQLite(db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS pages (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			position INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cells (
			page_id TEXT NOT NULL,
			row_idx INTEGER NOT NULL,
			col_idx INTEGER NOT NULL,
			value TEXT NOT NULL,
			bold INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (page_id, row_idx, col_idx),
			FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS column_widths (
			page_id TEXT NOT NULL,
			col_idx INTEGER NOT NULL,
			width INTEGER NOT NULL,
			PRIMARY KEY (page_id, col_idx),
			FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) pageIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM pages WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", name, ErrPageNotFound)
	}
	return id, err
}

func (s *SQLite) pageIDAt(ctx context.Context, ordinal int) (string, error) {
	if ordinal < 1 {
		return "", fmt.Errorf("page #%d: %w", ordinal, ErrPageNotFound)
	}
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM pages ORDER BY position LIMIT 1 OFFSET ?`, ordinal-1).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("page #%d: %w", ordinal, ErrPageNotFound)
	}
	return id, err
}

func (s *SQLite) ReadRegion(ctx context.Context, page string, region model.Region) (model.Grid, error) {
	id, err := s.pageIDByName(ctx, page)
	if err != nil {
		return model.Grid{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_idx, col_idx, value FROM cells
		WHERE page_id = ? AND row_idx BETWEEN ? AND ? AND col_idx BETWEEN ? AND ?`,
		id, region.Top, region.Bottom, region.Left, region.Right)
	if err != nil {
		return model.Grid{}, fmt.Errorf("read region %s: %w", region, err)
	}
	defer rows.Close()

	g := newGrid(region)
	for rows.Next() {
		var r, c int
		var v string
		if err := rows.Scan(&r, &c, &v); err != nil {
			return model.Grid{}, fmt.Errorf("scan cell: %w", err)
		}
		g.Rows[r-region.Top][c-region.Left] = v
	}
	return g, rows.Err()
}

func (s *SQLite) Pages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pages ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLite) AddPage(ctx context.Context) (int, error) {
	names, err := s.Pages(ctx)
	if err != nil {
		return 0, err
	}
	ordinal := len(names) + 1
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pages (id, name, position) VALUES (?, ?, ?)`,
		uuid.NewString(), defaultPageName(names), ordinal)
	if err != nil {
		return 0, fmt.Errorf("add page: %w", err)
	}
	log.Debug().Int("ordinal", ordinal).Msg("Added sqlite page")
	return ordinal, nil
}

func (s *SQLite) RenamePage(ctx context.Context, ordinal int, name string) error {
	id, err := s.pageIDAt(ctx, ordinal)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE pages SET name = ? WHERE id = ?`, name, id)
	if isUniqueViolation(err) {
		return fmt.Errorf("%q: %w", name, ErrNameTaken)
	}
	if err != nil {
		return fmt.Errorf("rename page #%d: %w", ordinal, err)
	}
	return nil
}

func (s *SQLite) WriteCells(ctx context.Context, ordinal int, cells []model.CellValue) error {
	id, err := s.pageIDAt(ctx, ordinal)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (page_id, row_idx, col_idx, value, bold) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (page_id, row_idx, col_idx) DO UPDATE SET value = excluded.value, bold = excluded.bold`)
	if err != nil {
		return fmt.Errorf("prepare write: %w", err)
	}
	defer stmt.Close()

	for _, c := range cells {
		if _, err := stmt.ExecContext(ctx, id, c.Row, c.Col, c.Text, c.Bold); err != nil {
			return fmt.Errorf("write %s: %w", c.Cell, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) AutoFitColumn(ctx context.Context, ordinal, col int) error {
	id, err := s.pageIDAt(ctx, ordinal)
	if err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM cells WHERE page_id = ? AND col_idx = ?`, id, col)
	if err != nil {
		return fmt.Errorf("read column %d: %w", col, err)
	}
	var texts []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		texts = append(texts, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO column_widths (page_id, col_idx, width) VALUES (?, ?, ?)
		ON CONFLICT (page_id, col_idx) DO UPDATE SET width = excluded.width`,
		id, col, textWidth(texts))
	return err
}

// Cell reports the stored text and boldness of a cell on the named page.
func (s *SQLite) Cell(ctx context.Context, page string, cell model.Cell) (string, bool, error) {
	id, err := s.pageIDByName(ctx, page)
	if err != nil {
		return "", false, err
	}
	var text string
	var bold bool
	err = s.db.QueryRowContext(ctx,
		`SELECT value, bold FROM cells WHERE page_id = ? AND row_idx = ? AND col_idx = ?`,
		id, cell.Row, cell.Col).Scan(&text, &bold)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	return text, bold, err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
