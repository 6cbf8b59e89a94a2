// Package sqlite stores named layouts in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mad-puzzle/internal/layout"
)

const schema = `CREATE TABLE IF NOT EXISTS layouts (
	name       TEXT PRIMARY KEY,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	cells      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store provides SQLite-backed persistence for layouts.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ layout.Store = (*Store)(nil)

// Open opens the database at path and creates the layouts table.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create layouts table: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts l under name.
func (s *Store) Save(ctx context.Context, name string, l layout.Layout) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if !layout.ValidName(name) {
		return fmt.Errorf("invalid layout name %q", name)
	}
	cells, err := layout.Encode(layout.Layout{Cells: l.Cells})
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO layouts (name, width, height, cells, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			cells = excluded.cells,
			updated_at = excluded.updated_at`,
		name, l.Width, l.Height, string(cells), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}
	return nil
}

// Load returns the layout stored under name.
func (s *Store) Load(ctx context.Context, name string) (layout.Layout, error) {
	if s == nil || s.sqlDB == nil {
		return layout.Layout{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT width, height, cells FROM layouts WHERE name = ?`, name)

	var width, height int
	var cells string
	if err := row.Scan(&width, &height, &cells); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return layout.Layout{}, fmt.Errorf("load layout %q: %w", name, layout.ErrNotFound)
		}
		return layout.Layout{}, fmt.Errorf("load layout %q: %w", name, err)
	}
	decoded, err := layout.Decode([]byte(cells))
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Layout{Width: width, Height: height, Cells: decoded.Cells}, nil
}

// List returns every stored layout name in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM layouts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan layout name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	return names, nil
}
