package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"identity-service/internal/domain"
)

const createProfileReadsTable = `
CREATE TABLE IF NOT EXISTS profile_reads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	requested_at DATETIME NOT NULL
);
`

// Log persists audit entries to a local sqlite file.
type Log struct {
	db *sql.DB
}

// OpenLog opens (or creates) the sqlite audit log at path and ensures
// parent directories exist.
func OpenLog(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	// single writer, matches the one consumer goroutine
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Log{db: db}, nil
}

func (l *Log) Init(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createProfileReadsTable); err != nil {
		return fmt.Errorf("create profile_reads table: %w", err)
	}
	return nil
}

func (l *Log) Record(ctx context.Context, entry domain.ProfileAudit) error {
	_, err := l.db.ExecContext(ctx, `
INSERT INTO profile_reads (user_id, requested_at)
VALUES (?, ?)`,
		entry.UserID,
		entry.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile read: %w", err)
	}
	return nil
}

func (l *Log) Close() error {
	return l.db.Close()
}
