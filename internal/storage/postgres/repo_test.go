package postgres

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profileload/internal/profile"
	"profileload/internal/storage"
)

func TestInsertSQLShape(t *testing.T) {
	t.Parallel()

	got := dialect.InsertProfileSQL("public.profile")
	assert.True(t, strings.HasPrefix(got, `INSERT INTO "public"."profile" ("name", "street_address",`))
	for _, a := range profile.Attributes {
		assert.Contains(t, got, "@"+a+"::text", a)
	}
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := CreateTableSQL("public.profile")
	assert.True(t, strings.HasPrefix(got, `CREATE TABLE IF NOT EXISTS "public"."profile" (`))
	assert.Contains(t, got, `"website" text NOT NULL`)
}

// Not parallel: t.Setenv clears PGDATABASE so only the DSN names a database.
func TestConnConfigDatabaseFallback(t *testing.T) {
	t.Setenv("PGDATABASE", "")

	tests := []struct {
		name   string
		cfg    Config
		wantDB string
	}{
		{"dsn_database_wins", Config{DSN: "postgres://u:p@db.internal:5433/crm", Database: "profiles"}, "crm"},
		{"dsn_only", Config{DSN: "postgres://u:p@db.internal/fromdsn"}, "fromdsn"},
		{"fills_missing_url", Config{DSN: "postgres://u:p@db.internal:5433", Database: "profiles"}, "profiles"},
		{"fills_missing_keyword", Config{DSN: "host=db.internal user=u", Database: "profiles"}, "profiles"},
		{"keyword_dbname_wins", Config{DSN: "host=db.internal user=u dbname=crm", Database: "profiles"}, "crm"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cc, err := ConnConfig(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDB, cc.Database)
			assert.Equal(t, "db.internal", cc.Host)
		})
	}
}

func TestConnConfigBadDSN(t *testing.T) {
	t.Parallel()

	_, err := ConnConfig(Config{DSN: "postgres://%zz"})
	assert.Error(t, err)
}

func TestNewRepositoryUnreachableIsStoreError(t *testing.T) {
	t.Parallel()

	// A unix socket path that cannot exist fails fast without network I/O.
	dsn := "host=" + filepath.Join(t.TempDir(), "no-socket-here") + " user=x dbname=x connect_timeout=1"
	_, _, err := NewRepository(context.Background(), Config{DSN: dsn})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStore)
}
