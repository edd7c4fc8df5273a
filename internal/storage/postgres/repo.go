// Package postgres implements a Postgres repository using pgx v5. Each run
// holds one pgx.Conn; every profile is a single INSERT with named, text-cast
// parameters.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"profileload/internal/profile"
	"profileload/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN      string        // pgx connection string; empty uses PG* env vars and local defaults
	Database string        // used when neither DSN nor PGDATABASE names a database
	Table    string        // optionally schema-qualified, e.g. "public.profile"
	Timeout  time.Duration // per statement; zero means none
}

// dialect spells every parameter as @attr::text for pgx.NamedArgs.
var dialect = storage.Dialect{
	QuoteIdent: storage.DoubleQuote,
	Param:      func(a string) string { return "@" + a + "::text" },
	TextType:   "text",
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	conn      *pgx.Conn
	cfg       Config
	insertSQL string
}

// ConnConfig parses cfg.DSN and falls back to cfg.Database when the DSN
// names no database.
func ConnConfig(cfg Config) (*pgx.ConnConfig, error) {
	cc, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	if cc.Database == "" {
		cc.Database = cfg.Database
	}
	return cc, nil
}

// NewRepository connects and returns a Repository plus a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	cc, err := ConnConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	conn, err := pgx.ConnectConfig(ctx, cc)
	if err != nil {
		return nil, nil, storage.StoreError("postgres", "connect", err)
	}
	closeFn := func() { _ = conn.Close(context.Background()) }
	return &Repository{conn: conn, cfg: cfg, insertSQL: dialect.InsertProfileSQL(cfg.Table)}, closeFn, nil
}

// InsertProfile executes one INSERT binding all ten attributes by name.
func (r *Repository) InsertProfile(ctx context.Context, p profile.Profile) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.conn.Exec(ctx, r.insertSQL, pgx.NamedArgs(p.Params())); err != nil {
		return storage.StoreError("postgres", "insert", err)
	}
	return nil
}

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.conn.Exec(ctx, sql); err != nil {
		return storage.StoreError("postgres", "exec", err)
	}
	return nil
}

// CreateTableSQL renders the bootstrap DDL for table.
func CreateTableSQL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", dialect.QuoteFQN(table), dialect.ProfileColumnsDDL())
}
