package mssql

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profileload/internal/profile"
	"profileload/internal/storage"
)

func TestResolveDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    Config
		wantDB string
	}{
		{"url_dsn_database_wins", Config{DSN: "sqlserver://sa:pw@localhost:1433?database=crm", Database: "profiles"}, "crm"},
		{"url_keep", Config{DSN: "sqlserver://sa:pw@localhost:1433?database=crm"}, "crm"},
		{"url_fills_missing", Config{DSN: "sqlserver://sa:pw@localhost:1433", Database: "profiles"}, "profiles"},
		{"ado_dsn_database_wins", Config{DSN: "server=localhost;user id=sa;password=pw;database=crm", Database: "profiles"}, "crm"},
		{"ado_fills_missing", Config{DSN: "server=localhost;user id=sa;password=pw;", Database: "profiles"}, "profiles"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dsn, err := ResolveDSN(tc.cfg)
			require.NoError(t, err)
			parsed, err := msdsn.Parse(dsn)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDB, parsed.Database)
		})
	}
}

func TestInsertSQLUsesAtParams(t *testing.T) {
	t.Parallel()

	stmt := dialect.InsertProfileSQL("dbo.profile")
	assert.Contains(t, stmt, "INSERT INTO [dbo].[profile] ([name], [street_address],")
	assert.Contains(t, stmt, "CAST(:website AS NVARCHAR(MAX))")

	q, args, err := sqlx.Named(stmt, profile.Profile{Name: "n"})
	require.NoError(t, err)
	q = sqlx.Rebind(sqlx.BindType("sqlserver"), q)
	assert.Contains(t, q, "CAST(@p1 AS NVARCHAR(MAX))")
	assert.Contains(t, q, "CAST(@p10 AS NVARCHAR(MAX))")
	assert.Len(t, args, len(profile.Attributes))
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := CreateTableSQL("dbo.profile")
	assert.Contains(t, got, "IF OBJECT_ID(N'[dbo].[profile]', N'U') IS NULL")
	assert.Contains(t, got, "[email] NVARCHAR(MAX) NOT NULL")
}

func TestMsIdent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[we]]ird]", msIdent("we]ird"))
}

func TestAdapterRegistration(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := 0
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed++ }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "server=x", Table: "dbo.profile"})
	require.NoError(t, err)
	assert.Equal(t, "dbo.profile", gotCfg.Table)
	repo.Close()
	assert.Equal(t, 1, closed)
}

func TestAdapterCloseWithoutCloseFn(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	newRepository = func(context.Context, Config) (*Repository, func(), error) {
		return &Repository{}, nil, nil
	}
	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql"})
	require.NoError(t, err)
	assert.NotPanics(t, repo.Close)
}
