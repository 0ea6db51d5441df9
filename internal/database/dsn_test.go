package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		Driver:   "postgres",
		Host:     "db.internal",
		Port:     5433,
		Name:     "attendance",
		User:     "portal",
		Password: "secret",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db.internal")
	require.Contains(t, dsn, "port=5433")
	require.Contains(t, dsn, "dbname=attendance")
	require.Contains(t, dsn, "sslmode=disable")
	require.Contains(t, dsn, "TimeZone=UTC")
}

func TestBuildPostgresDSNRequiresUser(t *testing.T) {
	_, err := buildPostgresDSN(Config{Driver: "postgres", Name: "attendance"})
	require.Error(t, err)
}

func TestBuildPostgresDSNDefaultsName(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{Driver: "postgres", User: "portal"})
	require.NoError(t, err)
	require.Contains(t, dsn, "dbname=attendance")
}

func TestBuildPostgresDSNOverride(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://u:p@h/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@h/db", dsn)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		Driver:   "mysql",
		Name:     "attendance",
		User:     "portal",
		Password: "secret",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "portal:secret@tcp(127.0.0.1:3306)/attendance")
	require.Contains(t, dsn, "parseTime=True")
	require.Contains(t, dsn, "loc=UTC")
}

func TestBuildMySQLDSNRequiresUser(t *testing.T) {
	_, err := buildMySQLDSN(Config{Driver: "mysql", Name: "attendance"})
	require.Error(t, err)
}

func TestBuildMySQLDSNDefaultsName(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{Driver: "mysql", User: "portal"})
	require.NoError(t, err)
	require.Contains(t, dsn, "/attendance?")
}

func TestMergeOptionsOverridesAndSorts(t *testing.T) {
	opts := mergeOptions(
		map[string]string{"sslmode": "disable", "TimeZone": "UTC"},
		map[string]string{"sslmode": "require"},
	)
	require.Equal(t, []string{"TimeZone=UTC", "sslmode=require"}, opts)
}
