// Package store is a sqlite-backed cache for the two kinds of expensive,
// re-derivable artifacts this engine produces: resampled/rescaled
// timeseries (internal/temporal's RescaleLoad/RescaleSolar) and full
// representative-period reductions (temporal.Result). Both are pure
// functions of their inputs, so they are cached by a content hash of
// those inputs rather than by a name the caller has to manage.
//
// Grounded on internal/database/db.go's DatabaseProfile/Config/New
// pattern: a profile picks a PRAGMA set and a connection-pool shape at
// open time, there is no ORM, and the caller owns the SQL.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Profile tunes PRAGMAs and pool limits for the two real access
// patterns a cache sees here: a batch run doing many lookups against an
// already-populated cache, and a single run populating it from scratch.
// Renamed from the teacher's Ledger/Cache/Standard split, which doesn't
// apply to a pure derived-data cache with no durability requirement.
type Profile int

const (
	ProfileReadHeavy Profile = iota
	ProfileWriteHeavy
)

// Config mirrors database.Config's shape.
type Config struct {
	Path    string
	Profile Profile
}

// Store wraps the opened database handle.
type Store struct {
	conn    *sql.DB
	path    string
	profile Profile
}

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	cache_key   TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	value       BLOB NOT NULL,
	created_at  INTEGER NOT NULL
);
`

// New opens (creating if necessary) the sqlite cache at cfg.Path.
func New(cfg Config) (*Store, error) {
	if cfg.Path != ":memory:" {
		abs, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("store: resolving path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("store: creating directory: %w", err)
		}
		cfg.Path = abs
	}

	conn, err := sql.Open("sqlite", buildConnectionString(cfg.Path, cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", cfg.Path, err)
	}
	configureConnectionPool(conn, cfg.Profile)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: pinging %s: %w", cfg.Path, err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}

	return &Store{conn: conn, path: cfg.Path, profile: cfg.Profile}, nil
}

// buildConnectionString mirrors database.buildConnectionString's
// profile-specific PRAGMA tuning, simplified to a two-profile cache: a
// read-heavy cache favors a bigger page cache and no fsync, a
// write-heavy one still skips fsync (nothing here is durable data that
// survives a crash — it's all re-derivable) but keeps auto_vacuum on so
// a long batch run doesn't grow the file unbounded.
func buildConnectionString(path string, profile Profile) string {
	connStr := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(OFF)&_pragma=temp_store(MEMORY)"
	switch profile {
	case ProfileWriteHeavy:
		connStr += "&_pragma=auto_vacuum(INCREMENTAL)&_pragma=cache_size(-32000)"
	default:
		connStr += "&_pragma=auto_vacuum(NONE)&_pragma=cache_size(-64000)"
	}
	return connStr
}

func configureConnectionPool(conn *sql.DB, profile Profile) {
	conn.SetConnMaxIdleTime(30 * time.Minute)
	conn.SetConnMaxLifetime(24 * time.Hour)
	switch profile {
	case ProfileWriteHeavy:
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(2)
	default:
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.conn.Close() }

// Get looks up a previously cached blob by key, returning ok=false on a
// miss rather than an error (a miss is the expected path, not a fault).
func (s *Store) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	row := s.conn.QueryRowContext(ctx, `SELECT value FROM cache_entries WHERE cache_key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return value, true, nil
}

// Put upserts a cached blob under key, tagged with kind for observability
// (e.g. "temporal.Result", "timeseries.rescale").
func (s *Store) Put(ctx context.Context, key, kind string, value []byte) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO cache_entries (cache_key, kind, value, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, created_at = excluded.created_at
	`, key, kind, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: put %s: %w", key, err)
	}
	return nil
}

// Key derives a cache key from a kind tag and its content parts (e.g. a
// load profile's raw bytes plus the target annual energy for a
// RescaleLoad call), so identical inputs always resolve to the same
// entry regardless of caller-assigned names.
func Key(kind string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
