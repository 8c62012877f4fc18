package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/secret"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    telegram_id INTEGER PRIMARY KEY,
    username    TEXT NOT NULL DEFAULT '',
    first_name  TEXT NOT NULL DEFAULT '',
    last_name   TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS credentials (
    telegram_id INTEGER PRIMARY KEY REFERENCES users(telegram_id) ON DELETE CASCADE,
    api_key     TEXT NOT NULL DEFAULT '',
    api_secret  TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'pending_key',
    updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS flow_states (
    user_id      INTEGER PRIMARY KEY,
    chat_id      INTEGER NOT NULL,
    workflow_id  TEXT NOT NULL,
    current_step TEXT NOT NULL,
    data         TEXT NOT NULL DEFAULT '{}',
    updated_at   TIMESTAMP NOT NULL
);
`

// SQLiteDB is the bot's local store: user profiles, sealed ERP credentials
// and in-flight conversation state.
type SQLiteDB struct {
	db  *sqlx.DB
	box *secret.Box
	log *slog.Logger
}

func NewSQLiteDB(path string, box *secret.Box, logger *slog.Logger) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// modernc sqlite serializes writes, a single connection avoids lock churn
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteDB{
		db:  db,
		box: box,
		log: logger.With(sl.Module("sqlite")),
	}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
