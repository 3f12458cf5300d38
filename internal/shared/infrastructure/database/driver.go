package database

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// Driver names a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid reports whether d is a supported backend.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// DetectDriver infers the backend from a connection string. An empty string
// selects SQLite so the binary runs without any setup.
func DetectDriver(url string) Driver {
	switch {
	case url == "", url == ":memory:":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"),
		strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// SQLitePath extracts a filesystem path from a SQLite connection string.
func SQLitePath(url string) string {
	return strings.TrimPrefix(url, "sqlite://")
}

// Rebind rewrites '?' placeholders into the bindvar style of the driver.
// Repositories write queries once with '?' and the executor rebinds.
func Rebind(driver Driver, query string) string {
	if driver == DriverPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return query
}

// In expands slice arguments into placeholder lists, e.g.
// "id IN (?)" with []string{"a","b"} becomes "id IN (?, ?)".
func In(query string, args ...any) (string, []any, error) {
	return sqlx.In(query, args...)
}
