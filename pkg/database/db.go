package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteParams turns on foreign keys, waits on locks instead of failing and
// makes LIKE case-sensitive so substring filters behave the same on every engine.
const sqliteParams = "_foreign_keys=1&_busy_timeout=5000&_cslike=1"

type DB struct {
	conn    *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open connects using the named database/sql driver ("sqlite3" or "pgx"),
// verifies the connection and applies the schema.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger, maxOpenConns int) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" {
		dsn = withSQLiteParams(dsn)
	}

	conn, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch {
	case driver == "sqlite3" && isMemory(dsn):
		// Each in-memory connection would otherwise see its own empty database.
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
	case maxOpenConns > 0:
		conn.SetMaxOpenConns(maxOpenConns)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn, dialect: dialect, logger: logger.With(slog.String("driver", driver))}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	db.logger.Debug("database ready")
	return db, nil
}

func withSQLiteParams(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) Logger() *slog.Logger {
	return db.logger
}

func (db *DB) migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(s *Session) error {
		for _, stmt := range db.dialect.Schema() {
			if _, err := s.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Querier is satisfied by *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session runs statements on a single connection or transaction. Statements
// are written with '?' placeholders and rebound for the active dialect.
type Session struct {
	q       Querier
	dialect Dialect
}

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// WithConn pins one pooled connection for the duration of fn, so a read and
// its relationship expansion see the same connection.
func (db *DB) WithConn(ctx context.Context, fn func(*Session) error) error {
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(&Session{q: conn, dialect: db.dialect})
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (db *DB) WithTx(ctx context.Context, fn func(*Session) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&Session{q: tx, dialect: db.dialect}); err != nil {
		return err
	}
	return tx.Commit()
}
