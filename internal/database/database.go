package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver is a database/sql driver name.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverPgx    Driver = "pgx"
)

func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case DriverSQLite, DriverPgx:
		return d, nil
	}

	return "", fmt.Errorf("unsupported database driver %q", s)
}

func New(driver Driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	switch driver {
	case DriverSQLite:
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// SQLiteDSN builds a modernc.org/sqlite DSN for a file path.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Rebind rewrites ? placeholders into the driver's native form.
func Rebind(driver Driver, query string) string {
	if driver != DriverPgx {
		return query
	}

	var b strings.Builder

	b.Grow(len(query) + 8)

	n := 0

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

// Time encodes timestamps as RFC 3339 text so both drivers store the same thing.
func Time(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}

	return t, nil
}

// NullTime encodes an optional timestamp.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: Time(*t), Valid: true}
}

func ParseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}

	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
