package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"profileload/internal/profile"
	"profileload/internal/storage"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

func init() {
	// sqlx does not know the modernc driver name; it uses '?' bind vars.
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// dialect spells every parameter as CAST(:attr AS TEXT).
var dialect = storage.Dialect{
	QuoteIdent: storage.DoubleQuote,
	Param:      func(a string) string { return "CAST(:" + a + " AS TEXT)" },
	TextType:   "TEXT",
}

// Repository writes profiles through one SQLite connection.
type Repository struct {
	db        *sqlx.DB
	cfg       Config
	insertSQL string
}

// NewRepository opens the database and returns a Repository plus a close
// function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn := cfg.dsn()
	if strings.TrimSpace(dsn) == "" || dsn == ".db" {
		return nil, nil, fmt.Errorf("sqlite: DSN or database name must not be empty")
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, nil, storage.StoreError("sqlite", "open", err)
	}
	// One connection for the whole run.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, storage.StoreError("sqlite", "ping", err)
	}

	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg, insertSQL: dialect.InsertProfileSQL(cfg.Table)}, closeFn, nil
}

// InsertProfile binds the ten attributes by name and executes one INSERT.
func (r *Repository) InsertProfile(ctx context.Context, p profile.Profile) error {
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.db.NamedExecContext(ctx, r.insertSQL, p); err != nil {
		return storage.StoreError("sqlite", "insert", err)
	}
	return nil
}

// Exec executes a statement without parameters (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	ctx, cancel := storage.CallContext(ctx, r.cfg.Timeout)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return storage.StoreError("sqlite", "exec", err)
	}
	return nil
}

// CreateTableSQL renders the bootstrap DDL for table.
func CreateTableSQL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", dialect.QuoteFQN(table), dialect.ProfileColumnsDDL())
}
