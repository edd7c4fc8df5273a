// Package mssql implements a Microsoft SQL Server storage.Repository on
// database/sql with go-mssqldb. Named parameters are bound through sqlx,
// which rewrites them to the driver's @pN placeholders.
package mssql

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"profileload/internal/profile"
	"profileload/internal/storage"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN      string // sqlserver:// URL or ADO-style key=value string
	Database string // used when the DSN names no database
	Table    string // e.g. "dbo.profile"
	Timeout  time.Duration
}

// dialect spells every parameter as CAST(:attr AS NVARCHAR(MAX)).
var dialect = storage.Dialect{
	QuoteIdent: msIdent,
	Param:      func(a string) string { return "CAST(:" + a + " AS NVARCHAR(MAX))" },
	TextType:   "NVARCHAR(MAX)",
}

// msIdent quotes an identifier with brackets.
func msIdent(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db        *sqlx.DB
	cfg       Config
	insertSQL string
}

// ResolveDSN validates cfg.DSN with msdsn and adds Database when the DSN
// names no database.
func ResolveDSN(cfg Config) (string, error) {
	dsn := cfg.DSN
	parsed, err := msdsn.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("mssql dsn: %w", err)
	}
	if parsed.Database == "" && cfg.Database != "" {
		if strings.HasPrefix(dsn, "sqlserver://") {
			u, err := url.Parse(dsn)
			if err != nil {
				return "", fmt.Errorf("mssql dsn: %w", err)
			}
			q := u.Query()
			q.Set("database", cfg.Database)
			u.RawQuery = q.Encode()
			dsn = u.String()
		} else {
			dsn = strings.TrimRight(dsn, ";") + ";database=" + cfg.Database
		}
	}
	if _, err := msdsn.Parse(dsn); err != nil {
		return "", fmt.Errorf("mssql dsn: %w", err)
	}
	return dsn, nil
}

// NewRepository connects and returns a Repository plus a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn, err := ResolveDSN(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlx.Open("sqlserver", dsn)
	if err != nil {
		return nil, nil, storage.StoreError("mssql", "open", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, storage.StoreError("mssql", "ping", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg, insertSQL: dialect.InsertProfileSQL(cfg.Table)}, closeFn, nil
}

// InsertProfile binds the ten attributes by name and executes one INSERT.
func (r *Repository) InsertProfile(ctx context.Context, p profile.Profile) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.db.NamedExecContext(ctx, r.insertSQL, p); err != nil {
		return storage.StoreError("mssql", "insert", err)
	}
	return nil
}

// Exec executes a statement without parameters.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return storage.StoreError("mssql", "exec", err)
	}
	return nil
}

// CreateTableSQL renders bootstrap DDL guarded by OBJECT_ID, since SQL Server
// has no CREATE TABLE IF NOT EXISTS.
func CreateTableSQL(table string) string {
	fqn := dialect.QuoteFQN(table)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (\n  %s\n)",
		strings.ReplaceAll(fqn, "'", "''"), fqn, dialect.ProfileColumnsDDL(),
	)
}
