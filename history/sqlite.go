package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hayeah/goo"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3" // Import SQLite driver
)

var sqliteMigrations = []goo.Migration{
	{
		Name: "create_sessions_table",
		Up: `
			CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY,
				started_at TIMESTAMP NOT NULL
			);
		`,
	},
	{
		Name: "create_entries_table",
		Up: `
			CREATE TABLE IF NOT EXISTS entries (
				id INTEGER PRIMARY KEY,
				session_id INTEGER NOT NULL,
				line TEXT NOT NULL,
				output TEXT NOT NULL,
				failed BOOLEAN NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				FOREIGN KEY (session_id) REFERENCES sessions (id)
			);
		`,
	},
	{
		Name: "index_entries_session",
		Up:   `CREATE INDEX IF NOT EXISTS entries_session_id ON entries (session_id);`,
	},
}

// SQLiteStore keeps history in a SQLite database.
type SQLiteStore struct {
	DB *sqlx.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// one connection keeps ":memory:" databases alive across queries
	db.SetMaxOpenConns(1)

	if err := goo.ProvideDBMigrator(db, logger).Up(sqliteMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) StartSession(ctx context.Context) (int64, error) {
	result, err := s.DB.ExecContext(ctx, "INSERT INTO sessions (started_at) VALUES (?)", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Record(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	result, err := s.DB.NamedExecContext(ctx,
		`INSERT INTO entries (session_id, line, output, failed, created_at)
		 VALUES (:session_id, :line, :output, :failed, :created_at)`,
		e,
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	e.ID = id
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	query := `SELECT id, session_id, line, output, failed, created_at FROM entries
		WHERE (? = 0 OR session_id = ?)
		ORDER BY id DESC LIMIT ?`

	var entries []Entry
	if err := s.DB.SelectContext(ctx, &entries, query, f.SessionID, f.SessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	slices.Reverse(entries)
	return entries, nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}
