// Package save persists game snapshots to SQLite.
//
// Saves are append-only rows; loading reads a row without deleting
// anything, so every earlier save remains loadable. Each row carries a
// schema version and an integrity digest so a corrupt or incompatible
// save fails loudly instead of resuming a broken session.
package save

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"

	"github.com/helios-os/helios/internal/story"
)

//go:embed schema.sql
var schemaSQL string

// Snapshot documents are versioned by this number. Load refuses rows
// written under a different version; there are no migrations.
const schemaVersion = 1

// Info describes one stored save for listing.
type Info struct {
	ID        int64
	CreatedAt time.Time
}

// Store is a SQLite-backed save-game store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the save database at path.
//
// SQLite is configured with WAL mode, NORMAL synchronous, a 5-second
// busy timeout, and a single connection (one writer avoids SQLITE_BUSY).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to save database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply save schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save appends a snapshot and returns its row id.
func (s *Store) Save(ctx context.Context, snap story.Snapshot) (int64, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (created_at, schema_version, snapshot, integrity) VALUES (?, ?, ?, ?)`,
		time.Now().UnixMilli(), schemaVersion, string(payload), digest(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("insert save: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert save: %w", err)
	}
	return id, nil
}

// Load reads the save with the given id, or the most recent save when
// id <= 0. A missing row returns ok=false with a nil error: the caller
// keeps its current session. Corrupt or version-mismatched rows are an
// error.
func (s *Store) Load(ctx context.Context, id int64) (story.Snapshot, bool, error) {
	query := `SELECT schema_version, snapshot, integrity FROM saves WHERE id = ?`
	args := []any{id}
	if id <= 0 {
		query = `SELECT schema_version, snapshot, integrity FROM saves ORDER BY id DESC LIMIT 1`
		args = nil
	}

	var version int
	var payload, sum string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&version, &payload, &sum)
	if errors.Is(err, sql.ErrNoRows) {
		return story.Snapshot{}, false, nil
	}
	if err != nil {
		return story.Snapshot{}, false, fmt.Errorf("read save: %w", err)
	}

	if version != schemaVersion {
		return story.Snapshot{}, false, fmt.Errorf("save schema version %d, want %d", version, schemaVersion)
	}
	if digest([]byte(payload)) != sum {
		return story.Snapshot{}, false, fmt.Errorf("save integrity check failed")
	}

	var snap story.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return story.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// List returns all saves, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at FROM saves ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		var millis int64
		if err := rows.Scan(&info.ID, &millis); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		info.CreatedAt = time.UnixMilli(millis)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return out, nil
}

// digest hashes a snapshot payload. The payload is NFC-normalized first
// so the commander name's Unicode form cannot flip the digest between
// writers.
func digest(payload []byte) string {
	sum := sha256.Sum256(norm.NFC.Bytes(payload))
	return hex.EncodeToString(sum[:])
}
