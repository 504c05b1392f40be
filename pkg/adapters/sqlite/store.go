// Package sqlite stores the framework in a single-row SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS framework (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// Store implements ports.FrameworkStore on top of SQLite.
// The document row is replaced with a single upsert, which SQLite applies atomically.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Persist upserts the framework document.
func (s *Store) Persist(ctx context.Context, fw domain.Framework) error {
	data, err := json.Marshal(fw)
	if err != nil {
		return fmt.Errorf("failed to marshal framework: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO framework (id, document, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write framework row: %w", err)
	}
	return nil
}

// Load reads the framework document.
func (s *Store) Load(ctx context.Context) (domain.Framework, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM framework WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFrameworkAbsent
		}
		return nil, fmt.Errorf("failed to read framework row: %w", err)
	}

	var fw domain.Framework
	if err := json.Unmarshal([]byte(doc), &fw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal framework: %w", err)
	}
	if fw == nil {
		fw = domain.Framework{}
	}
	return fw, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
