// ABOUTME: SQLite implementation of the MessageStore interface using modernc.org/sqlite
// ABOUTME: Owns the database file, schema creation and timestamp encoding

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// storedTimeLayout is the fixed-width ISO-8601 form used for every
// timestamp column. Microseconds are zero-padded so lexicographic
// comparison of stored text matches chronological order.
const storedTimeLayout = "2006-01-02T15:04:05.000000"

// dateLayout is the calendar-date form used for the summary date column.
const dateLayout = "2006-01-02"

// localUTCOffset is the fixed offset of the bot's local wall clock from
// UTC. Timeframe query bounds arrive in local time and are shifted by
// this amount before comparison against stored timestamps, which are
// assumed to already be UTC. There is no daylight-saving adjustment and
// no per-guild timezone; correcting that means changing this one
// constant and localToStored below.
const localUTCOffset = -5 * time.Hour

// SQLiteStore implements the MessageStore interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dir/filename
// and ensures the schema exists. The directory is created if missing.
// Safe to call on every process startup; a failure here is fatal for the
// caller since nothing works without the store.
func NewSQLiteStore(dir, filename string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the tables and indexes if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL,
			author_name TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			channel_name TEXT NOT NULL,
			guild_id TEXT,
			guild_name TEXT,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			is_bot INTEGER NOT NULL,
			is_command INTEGER NOT NULL,
			command_type TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_author_id ON messages (author_id);
		CREATE INDEX IF NOT EXISTS idx_channel_id ON messages (channel_id);
		CREATE INDEX IF NOT EXISTS idx_guild_id ON messages (guild_id);
		CREATE INDEX IF NOT EXISTS idx_created_at ON messages (created_at);
		CREATE INDEX IF NOT EXISTS idx_is_command ON messages (is_command);

		CREATE TABLE IF NOT EXISTS channel_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			channel_id TEXT NOT NULL,
			channel_name TEXT NOT NULL,
			guild_id TEXT,
			guild_name TEXT,
			date TEXT NOT NULL,
			summary_text TEXT NOT NULL,
			message_count INTEGER NOT NULL,
			active_users INTEGER NOT NULL,
			active_users_list TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			metadata TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_summary_channel_id ON channel_summaries (channel_id);
		CREATE INDEX IF NOT EXISTS idx_summary_date ON channel_summaries (date);

		CREATE TABLE IF NOT EXISTS scraped_links (
			url TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// formatStored renders t as stored-column text without any offset shift.
func formatStored(t time.Time) string {
	return t.Format(storedTimeLayout)
}

// localToStored shifts a local-time query bound into the stored (UTC)
// representation.
func localToStored(t time.Time) string {
	return t.Add(-localUTCOffset).Format(storedTimeLayout)
}

// parseStored reads a stored timestamp back into a time.Time. Rows
// written by older tooling may carry RFC3339 text, so that form is
// accepted as a fallback. Unparseable text yields the zero time.
func parseStored(s string) time.Time {
	if t, err := time.Parse(storedTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

// nullString returns nil for empty strings, otherwise the string itself
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt encodes a boolean as the 0/1 form used by the schema
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SQLiteStore implements MessageStore
var _ MessageStore = (*SQLiteStore)(nil)
