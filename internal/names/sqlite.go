package names

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists names in a single table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database at the given path and runs migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := "file:" + filepath.ToSlash(path) +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS display_names (
	user_id    TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("migrate display_names: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id domain.UserID) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM display_names WHERE user_id = ?`, string(id)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("name get error: %w", err)
	}
	return name, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, id domain.UserID, name string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO display_names (user_id, name, updated_at) VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		string(id), name, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("name set error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
