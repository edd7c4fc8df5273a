// Package mysql implements a MySQL-backed storage.Repository using
// database/sql with the go-sql-driver/mysql driver and sqlx named binding.
package mysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"profileload/internal/profile"
	"profileload/internal/storage"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN      string // go-sql-driver DSN, e.g. user:pass@tcp(localhost:3306)/
	Database string // used when the DSN names no database
	Table    string
	Timeout  time.Duration
}

// dialect spells every parameter as CAST(:attr AS CHAR).
var dialect = storage.Dialect{
	QuoteIdent: func(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" },
	Param:      func(a string) string { return "CAST(:" + a + " AS CHAR)" },
	TextType:   "TEXT",
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db        *sqlx.DB
	cfg       Config
	insertSQL string
}

// ResolveDSN parses cfg.DSN and fills in Database when the DSN selects no
// database.
func ResolveDSN(cfg Config) (string, error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	if mc.DBName == "" {
		mc.DBName = cfg.Database
	}
	if mc.DBName == "" {
		return "", fmt.Errorf("mysql dsn: no database selected")
	}
	return mc.FormatDSN(), nil
}

// NewRepository connects and returns a Repository plus a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn, err := ResolveDSN(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, nil, storage.StoreError("mysql", "open", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, storage.StoreError("mysql", "ping", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg, insertSQL: dialect.InsertProfileSQL(cfg.Table)}, closeFn, nil
}

// InsertProfile binds the ten attributes by name and executes one INSERT.
func (r *Repository) InsertProfile(ctx context.Context, p profile.Profile) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.db.NamedExecContext(ctx, r.insertSQL, p); err != nil {
		return storage.StoreError("mysql", "insert", err)
	}
	return nil
}

// Exec executes a statement without parameters.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return storage.StoreError("mysql", "exec", err)
	}
	return nil
}

// CreateTableSQL renders the bootstrap DDL for table.
func CreateTableSQL(table string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n) DEFAULT CHARSET=utf8mb4",
		dialect.QuoteFQN(table), dialect.ProfileColumnsDDL(),
	)
}
