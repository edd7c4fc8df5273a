// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

import "time"

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:profiles.db?_pragma=busy_timeout(5000)"
	//   "profiles.db"
	// When empty, Database + ".db" is used.
	DSN string

	// Database is the file stem used when DSN is empty.
	Database string

	// Table is the target table name. FQN values such as "main.profile" are
	// accepted and passed through.
	Table string

	// Timeout bounds each statement.
	Timeout time.Duration
}

func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return c.Database + ".db"
}
