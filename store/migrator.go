package store

import (
	"context"
	"log/slog"
)

// Schema setup is a fixed, ordered list of idempotent statements rather than
// versioned migration files: the schema is three small tables and both
// backends accept the same dialect. Statements run one at a time because the
// remote HTTP backend executes a single statement per round trip.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY NOT NULL,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY NOT NULL,
		session_id TEXT NOT NULL,
		text TEXT NOT NULL,
		completed INTEGER DEFAULT 0 NOT NULL,
		completed_at INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS person_facts (
		key TEXT PRIMARY KEY NOT NULL,
		value TEXT NOT NULL,
		category TEXT
	)`,
}

// SchemaStatements returns the ordered DDL both backends execute.
func SchemaStatements() []string {
	return schemaStatements
}

// EnsureSchema makes sure the tables exist. It is safe to call on every
// request: concurrent callers share one in-flight attempt, and after the
// first success it is a no-op for the process lifetime.
//
// Failures are logged and swallowed. The statements are CREATE TABLE IF NOT
// EXISTS, so the usual failure is a race with another process that already
// created the tables; treating that as fatal would take down requests that
// would have succeeded. Genuine connectivity problems surface earlier, when
// the driver is constructed, and again on the first real query.
func (s *Store) EnsureSchema(ctx context.Context) {
	if s.schemaReady.Load() {
		return
	}
	_, err, _ := s.schemaGroup.Do("schema", func() (any, error) {
		return nil, s.driver.EnsureSchema(ctx)
	})
	if err != nil {
		slog.Warn("schema setup failed, assuming tables exist", slog.String("error", err.Error()))
		return
	}
	s.schemaReady.Store(true)
}
