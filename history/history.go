// Package history records the command lines a calculator session executes.
// It is an audit log: nothing in it is ever replayed into the sets.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one executed command line.
type Entry struct {
	ID        int64     `db:"id" json:"id"`
	SessionID int64     `db:"session_id" json:"session_id"`
	Line      string    `db:"line" json:"line"`
	Output    string    `db:"output" json:"output"`
	Failed    bool      `db:"failed" json:"failed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Filter narrows List. Zero values mean no restriction.
type Filter struct {
	SessionID int64
	Limit     int // most recent N entries
}

func (f Filter) match(e *Entry) bool {
	return f.SessionID == 0 || e.SessionID == f.SessionID
}

// Store persists history entries.
type Store interface {
	// StartSession allocates a new session id
	StartSession(ctx context.Context) (int64, error)
	// Record stores e, assigning its ID and, when unset, its CreatedAt
	Record(ctx context.Context, e *Entry) error
	// List returns matching entries, oldest first
	List(ctx context.Context, f Filter) ([]Entry, error)
	Close() error
}

// Config selects and configures the backend.
type Config struct {
	Enabled bool   `toml:"enabled"`
	Backend string `toml:"backend"` // "sqlite" | "bolt"
	Path    string `toml:"path"`
}

var ErrUnknownBackend = errors.New("unknown history backend")

// Open returns the store described by cfg. A disabled config yields a store
// that discards everything.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if !cfg.Enabled {
		return Discard{}, nil
	}

	path, err := expandHome(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	switch cfg.Backend {
	case "", "sqlite":
		return OpenSQLite(path, logger)
	case "bolt":
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func expandHome(path string) (string, error) {
	if path == "" {
		return "", errors.New("history path is empty")
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Discard is a Store that records nothing.
type Discard struct{}

func (Discard) StartSession(context.Context) (int64, error)   { return 0, nil }
func (Discard) Record(context.Context, *Entry) error          { return nil }
func (Discard) List(context.Context, Filter) ([]Entry, error) { return nil, nil }
func (Discard) Close() error                                  { return nil }
