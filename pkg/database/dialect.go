package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Dialect hides the differences between the supported SQL engines. Queries
// are written with '?' placeholders and rebound per dialect.
type Dialect interface {
	// DriverName is the database/sql driver name.
	DriverName() string
	Rebind(query string) string
	// InsertReturningID runs an INSERT and returns the identity assigned by the store.
	InsertReturningID(ctx context.Context, s *Session, table, pk string, frag Fragment) (int64, error)
	Schema() []string
}

func dialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3":
		return sqliteDialect{}, nil
	case "pgx":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func insertStatement(table string, frag Fragment) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(frag.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(frag.Columns, ", "), placeholders)
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite3" }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) InsertReturningID(ctx context.Context, s *Session, table, pk string, frag Fragment) (int64, error) {
	res, err := s.Exec(ctx, insertStatement(table, frag), frag.Values...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (sqliteDialect) Schema() []string { return sqliteSchema }

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "pgx" }

// Rebind rewrites '?' placeholders into $1..$n.
func (postgresDialect) Rebind(query string) string {
	n := strings.Count(query, "?")
	if n == 0 {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + n*2)
	i := 0
	for _, r := range query {
		if r == '?' {
			i++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(i))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (postgresDialect) InsertReturningID(ctx context.Context, s *Session, table, pk string, frag Fragment) (int64, error) {
	var id int64
	err := s.QueryRow(ctx, insertStatement(table, frag)+" RETURNING "+pk, frag.Values...).Scan(&id)
	return id, err
}

func (postgresDialect) Schema() []string { return postgresSchema }
