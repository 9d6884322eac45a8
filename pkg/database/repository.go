package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jamesprial/arvores-brasileiras-api/internal/logging"
	"github.com/jamesprial/arvores-brasileiras-api/internal/metrics"
)

// ListOptions selects one page of a table.
type ListOptions struct {
	Page    int
	PerPage int
	// Filters maps a column name to a case-sensitive substring. Keys that are
	// not the primary key or a field of the table are ignored.
	Filters map[string]string
	Expand  bool
}

// Repository implements the CRUD, paging and filtering operations for any
// table described by a Descriptor.
type Repository[T any] struct {
	db     *DB
	desc   Descriptor[T]
	logger *slog.Logger
}

func NewRepository[T any](db *DB, desc Descriptor[T]) *Repository[T] {
	return &Repository[T]{
		db:     db,
		desc:   desc,
		logger: db.logger.With(slog.String("table", desc.Table())),
	}
}

func (r *Repository[T]) Descriptor() Descriptor[T] {
	return r.desc
}

// List returns one page of records ordered by primary key, with the
// pagination envelope computed from a separate count using the same filters.
func (r *Repository[T]) List(ctx context.Context, opts ListOptions) (page *Page[T], err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "list", start, err) }()

	if opts.Page < 1 {
		return nil, inputErrorf("page", "must be at least 1")
	}
	if opts.PerPage < 1 {
		return nil, inputErrorf("per_page", "must be at least 1")
	}

	where, args := r.filterClause(opts.Filters)
	page = &Page[T]{}

	err = r.db.WithConn(ctx, func(s *Session) error {
		total, err := r.count(ctx, s, where, args)
		if err != nil {
			return err
		}

		query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT ? OFFSET ?",
			selectList(r.desc), r.desc.Table(), where, r.desc.PrimaryKey())
		pageArgs := append(append([]any{}, args...), opts.PerPage, (opts.Page-1)*opts.PerPage)
		records, err := collect(ctx, s, r.desc, query, pageArgs...)
		if err != nil {
			return err
		}
		if opts.Expand {
			r.expandAll(ctx, s, records)
		}

		pages := int((total + int64(opts.PerPage) - 1) / int64(opts.PerPage))
		page.Data = records
		page.Pagination = Pagination{
			Page:    opts.Page,
			Pages:   pages,
			PerPage: opts.PerPage,
			Total:   total,
			HasNext: opts.Page < pages,
			HasPrev: opts.Page > 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Get returns the record with the given primary key or ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id int64, expand bool) (rec *T, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "get", start, err, slog.Int64("id", id)) }()

	err = r.db.WithConn(ctx, func(s *Session) error {
		got, err := r.getOne(ctx, s, id)
		if err != nil {
			return err
		}
		if expand {
			r.expand(ctx, s, got)
		}
		rec = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create inserts the recognized fields of in and returns the stored record.
func (r *Repository[T]) Create(ctx context.Context, in map[string]any) (rec *T, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "create", start, err) }()

	if !supplied(r.desc, in) {
		return nil, inputErrorf("", "no recognized fields for %s", r.desc.Table())
	}
	frag, err := r.desc.ToStorage(in, OpCreate)
	if err != nil {
		return nil, err
	}

	err = r.db.WithTx(ctx, func(s *Session) error {
		id, err := r.db.dialect.InsertReturningID(ctx, s, r.desc.Table(), r.desc.PrimaryKey(), frag)
		if err != nil {
			return err
		}
		rec, err = r.getOne(ctx, s, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update overwrites the supplied fields of one record, leaving the rest
// untouched. It returns ErrNotFound when no row has the id.
func (r *Repository[T]) Update(ctx context.Context, id int64, in map[string]any) (rec *T, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "update", start, err, slog.Int64("id", id)) }()

	if !supplied(r.desc, in) {
		return nil, inputErrorf("", "no recognized fields for %s", r.desc.Table())
	}
	frag, err := r.desc.ToStorage(in, OpUpdate)
	if err != nil {
		return nil, err
	}

	sets := make([]string, len(frag.Columns))
	for i, col := range frag.Columns {
		sets[i] = col + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", r.desc.Table(), strings.Join(sets, ", "), r.desc.PrimaryKey())
	args := append(append([]any{}, frag.Values...), id)

	err = r.db.WithTx(ctx, func(s *Session) error {
		res, err := s.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		rec, err = r.getOne(ctx, s, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes one record and reports whether a row was affected.
func (r *Repository[T]) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "delete", start, err, slog.Int64("id", id)) }()

	err = r.db.WithTx(ctx, func(s *Session) error {
		res, err := s.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.desc.Table(), r.desc.PrimaryKey()), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		deleted = n > 0
		return err
	})
	return deleted, err
}

func (r *Repository[T]) Exists(ctx context.Context, id int64) (exists bool, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "exists", start, err, slog.Int64("id", id)) }()

	err = r.db.WithConn(ctx, func(s *Session) error {
		var one int
		err := s.QueryRow(ctx,
			fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ?", r.desc.Table(), r.desc.PrimaryKey()), id,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		exists = err == nil
		return err
	})
	return exists, err
}

// Count returns the number of records matching filters, applied as in List.
func (r *Repository[T]) Count(ctx context.Context, filters map[string]string) (total int64, err error) {
	start := time.Now()
	defer func() { err = r.observe(ctx, "count", start, err) }()

	where, args := r.filterClause(filters)
	err = r.db.WithConn(ctx, func(s *Session) error {
		n, err := r.count(ctx, s, where, args)
		total = n
		return err
	})
	return total, err
}

func (r *Repository[T]) count(ctx context.Context, s *Session, where string, args []any) (int64, error) {
	var total int64
	err := s.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.desc.Table(), where), args...).Scan(&total)
	return total, err
}

func (r *Repository[T]) getOne(ctx context.Context, s *Session, id int64) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", selectList(r.desc), r.desc.Table(), r.desc.PrimaryKey())
	rec, err := r.desc.Scan(s.QueryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// filterClause turns honored filters into a " WHERE ..." clause, in column order.
func (r *Repository[T]) filterClause(filters map[string]string) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	var (
		conds []string
		args  []any
	)
	for _, col := range columnNames(r.desc) {
		v, ok := filters[col]
		if !ok {
			continue
		}
		conds = append(conds, likeCondition(col))
		args = append(args, containsPattern(v))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func likeCondition(col string) string {
	return fmt.Sprintf(`CAST(%s AS TEXT) LIKE ? ESCAPE '\'`, col)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps v in wildcards, matching it literally.
func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

// expand attaches relationships to rec. Failures are logged and leave rec as it was.
func (r *Repository[T]) expand(ctx context.Context, s *Session, rec *T) {
	if err := r.desc.Expand(ctx, s, rec); err != nil {
		metrics.ExpansionFailures.WithLabelValues(r.desc.Table()).Inc()
		logging.LoggerWithContext(ctx, r.logger).Warn("relationship expansion failed",
			slog.Int64("id", r.desc.ID(rec)),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Repository[T]) expandAll(ctx context.Context, s *Session, records []T) {
	for i := range records {
		r.expand(ctx, s, &records[i])
	}
}

// observe records the operation's latency and logs storage failures, which
// are returned wrapped. Not-found and input errors pass through untouched.
func (r *Repository[T]) observe(ctx context.Context, op string, start time.Time, err error, attrs ...any) error {
	var failure error
	if err != nil && !errors.Is(err, ErrNotFound) && !IsInputError(err) {
		failure = err
	}
	metrics.ObserveQuery(op, r.desc.Table(), start, failure)
	if failure == nil {
		return err
	}
	args := append([]any{slog.String("op", op), slog.String("error", failure.Error())}, attrs...)
	logging.LoggerWithContext(ctx, r.logger).Error("storage operation failed", args...)
	return fmt.Errorf("%s %s: %w", op, r.desc.Table(), failure)
}

// collect runs query and scans every row through d.
func collect[T any](ctx context.Context, s *Session, d Descriptor[T], query string, args ...any) ([]T, error) {
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		rec, err := d.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
