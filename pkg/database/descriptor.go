package database

import (
	"context"
	"strings"
)

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// Descriptor declares how one table maps to its typed record T.
type Descriptor[T any] interface {
	Table() string
	PrimaryKey() string
	// Fields lists the writable columns in select order, after the primary key.
	Fields() []Field
	// Scan reads a row selected as the primary key followed by Fields.
	Scan(row RowScanner) (*T, error)
	ID(rec *T) int64
	// ToStorage keeps the recognized fields of in, coerced to their column kinds.
	ToStorage(in map[string]any, op Op) (Fragment, error)
	// Expand attaches related rows to rec. On error rec is left unchanged.
	Expand(ctx context.Context, s *Session, rec *T) error
}

func columnNames[T any](d Descriptor[T]) []string {
	fields := d.Fields()
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, d.PrimaryKey())
	for _, f := range fields {
		cols = append(cols, f.Name)
	}
	return cols
}

func selectList[T any](d Descriptor[T]) string {
	return strings.Join(columnNames(d), ", ")
}

// filterable reports whether name is the primary key or a field of d.
func filterable[T any](d Descriptor[T], name string) bool {
	if name == d.PrimaryKey() {
		return true
	}
	for _, f := range d.Fields() {
		if f.Name == name {
			return true
		}
	}
	return false
}

// supplied reports whether in names at least one field of d. Defaults a
// descriptor adds on its own do not count.
func supplied[T any](d Descriptor[T], in map[string]any) bool {
	for _, f := range d.Fields() {
		if _, ok := in[f.Name]; ok {
			return true
		}
	}
	return false
}
