// Package store is the storage adapter for the student records manager.
//
// It opens (or creates) the relational store, ensures the Students table
// exists, and runs parameterized statements built with squirrel. Two engines
// are supported behind database/sql: an embedded SQLite file (the default,
// via modernc.org/sqlite) and PostgreSQL (via pgx's database/sql driver) when
// the DSN is a postgres:// URL.
//
// The adapter holds exactly one connection. Statement text never contains
// caller-supplied values; only column identifiers chosen by the service from a
// fixed whitelist are placed in statement text, and every value is bound.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver
)

// Dialect identifies the storage engine behind a DB.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	default:
		return "sqlite"
	}
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) placeholders() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// DetectDialect picks the engine for a DSN: postgres:// and postgresql://
// URLs select PostgreSQL, anything else is treated as an SQLite file path.
func DetectDialect(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// Execer is the subset of database/sql shared by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Runner executes squirrel statements against a connection or transaction,
// rendering placeholders for the connection's dialect.
type Runner struct {
	x  Execer
	sb sq.StatementBuilderType
}

// Builder returns a statement builder using the dialect's placeholder format.
func (r Runner) Builder() sq.StatementBuilderType {
	return r.sb
}

// Exec runs a statement and returns the number of affected rows.
func (r Runner) Exec(ctx context.Context, stmt sq.Sqlizer) (int64, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}

	res, err := r.x.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Query runs a statement and returns a row cursor. The caller closes it.
func (r Runner) Query(ctx context.Context, stmt sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}
	return r.x.QueryContext(ctx, query, args...)
}

// QueryRow runs a statement expected to return one row and scans it into dest.
// Returns sql.ErrNoRows when the statement matches nothing.
func (r Runner) QueryRow(ctx context.Context, stmt sq.Sqlizer, dest ...any) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build statement: %w", err)
	}
	return r.x.QueryRowContext(ctx, query, args...).Scan(dest...)
}

// DB is an open store holding a single connection for the process lifetime.
type DB struct {
	Runner
	conn    *sql.DB
	dialect Dialect
	target  string
}

// ConnectionError reports that the store could not be opened or reached.
type ConnectionError struct {
	Target string // Redacted DSN
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to store %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Open opens or creates the store addressed by dsn and verifies the
// connection. Any failure is returned as a *ConnectionError.
func Open(ctx context.Context, dsn string) (*DB, error) {
	dialect := DetectDialect(dsn)
	target := redact(dsn, dialect)

	if strings.TrimSpace(dsn) == "" {
		return nil, &ConnectionError{Target: target, Err: errors.New("empty DSN")}
	}

	conn, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, &ConnectionError{Target: target, Err: err}
	}

	// One process, one connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, &ConnectionError{Target: target, Err: err}
	}

	return &DB{
		Runner: Runner{
			x:  conn,
			sb: sq.StatementBuilder.PlaceholderFormat(dialect.placeholders()),
		},
		conn:    conn,
		dialect: dialect,
		target:  target,
	}, nil
}

// Dialect returns the engine behind the store.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Target returns the redacted DSN, safe for logs.
func (d *DB) Target() string {
	return d.target
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise. fn must use the Runner it is given;
// the store's single connection is held by the transaction until it ends.
func (d *DB) WithTx(ctx context.Context, fn func(Runner) error) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op after commit

	if err := fn(Runner{x: tx, sb: d.sb}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close releases the connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// redact hides credentials in server DSNs. File paths are returned as-is.
func redact(dsn string, dialect Dialect) string {
	if dialect != Postgres {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "[invalid postgres url]"
	}
	return u.Redacted()
}
