package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FindContaining returns records where any of fields contains value as a
// case-sensitive substring, ordered by orderBy (primary key when empty).
func (r *Repository[T]) FindContaining(ctx context.Context, fields []string, value, orderBy string, expand bool) (recs []T, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "find_containing", start, err, slog.String("value", value)) }()

	conds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		if !filterable(r.desc, f) {
			return nil, fmt.Errorf("unknown column %s.%s", r.desc.Table(), f)
		}
		conds = append(conds, likeCondition(f))
		args = append(args, containsPattern(value))
	}
	if orderBy != "" && !filterable(r.desc, orderBy) {
		return nil, fmt.Errorf("unknown column %s.%s", r.desc.Table(), orderBy)
	}

	where := "(" + strings.Join(conds, " OR ") + ")"
	return r.find(ctx, where, orderBy, expand, args...)
}

// FindEqual returns records whose integer column field equals value.
func (r *Repository[T]) FindEqual(ctx context.Context, field string, value int64, expand bool) (recs []T, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "find_equal", start, err, slog.String("field", field)) }()

	if !filterable(r.desc, field) {
		return nil, fmt.Errorf("unknown column %s.%s", r.desc.Table(), field)
	}
	return r.find(ctx, field+" = ?", "", expand, value)
}

// FindInRange returns records whose numeric column field lies within the
// inclusive bounds. A nil bound is open.
func (r *Repository[T]) FindInRange(ctx context.Context, field string, min, max *float64, expand bool) (recs []T, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "find_range", start, err, slog.String("field", field)) }()

	if !filterable(r.desc, field) {
		return nil, fmt.Errorf("unknown column %s.%s", r.desc.Table(), field)
	}
	if min != nil && max != nil && *min > *max {
		return nil, inputErrorf("min", "must not exceed max")
	}

	var (
		conds []string
		args  []any
	)
	if min != nil {
		conds = append(conds, field+" >= ?")
		args = append(args, *min)
	}
	if max != nil {
		conds = append(conds, field+" <= ?")
		args = append(args, *max)
	}
	return r.find(ctx, strings.Join(conds, " AND "), "", expand, args...)
}

func (r *Repository[T]) find(ctx context.Context, where, orderBy string, expand bool, args ...any) ([]T, error) {
	var recs []T
	err := r.db.WithConn(ctx, func(s *Session) error {
		found, err := queryAll(ctx, s, r.desc, where, orderBy, args...)
		if err != nil {
			return err
		}
		if expand {
			r.expandAll(ctx, s, found)
		}
		recs = found
		return nil
	})
	return recs, err
}
