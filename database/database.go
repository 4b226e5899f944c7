package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps the goqu database along with the underlying sql.DB so callers get
// an explicit open/close lifecycle instead of a package-level singleton.
type DB struct {
	*goqu.Database
	sqlDB  *sql.DB
	Driver string
}

// Open connects to the configured datastore. driver is "postgres" or "sqlite";
// dsn is a connection string or a file path respectively.
func Open(driver, dsn string) (*DB, error) {
	var driverName, dialect string
	switch driver {
	case "postgres":
		driverName, dialect = "postgres", "postgres"
	case "sqlite":
		driverName, dialect = "sqlite", "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{
		Database: goqu.New(dialect, sqlDB),
		sqlDB:    sqlDB,
		Driver:   driver,
	}, nil
}

func (d *DB) Close() error {
	return d.sqlDB.Close()
}

func (d *DB) Ping() error {
	return d.sqlDB.Ping()
}

// IsUniqueViolation reports whether err comes from a unique-constraint
// collision, for either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
