package database

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindTime:
		return "timestamp"
	default:
		return "text"
	}
}

// Field is a writable, filterable column of a table.
type Field struct {
	Name string
	Kind Kind
}

// Op distinguishes inserts from partial updates when building a write.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
)

// Fragment is the ordered column/value list of an INSERT or UPDATE.
type Fragment struct {
	Columns []string
	Values  []any
}

func (f *Fragment) add(column string, value any) {
	f.Columns = append(f.Columns, column)
	f.Values = append(f.Values, value)
}

func (f Fragment) has(column string) bool {
	for _, c := range f.Columns {
		if c == column {
			return true
		}
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// buildFragment keeps the keys of in that name one of fields, in field
// order, coercing each value to the column's kind. Unknown keys, including
// the primary key, are dropped.
func buildFragment(fields []Field, in map[string]any) (Fragment, error) {
	var frag Fragment
	for _, f := range fields {
		raw, ok := in[f.Name]
		if !ok {
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			return Fragment{}, err
		}
		frag.add(f.Name, v)
	}
	return frag, nil
}

func coerce(f Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindText:
		s, ok := raw.(string)
		if !ok {
			return nil, inputErrorf(f.Name, "expected %s", KindText)
		}
		return s, nil
	case KindInt:
		return coerceInt(f.Name, raw)
	case KindFloat:
		return coerceFloat(f.Name, raw)
	case KindTime:
		s, ok := raw.(string)
		if !ok {
			if t, ok := raw.(time.Time); ok {
				return t.UTC(), nil
			}
			return nil, inputErrorf(f.Name, "expected %s string", KindTime)
		}
		t, err := parseTime(s)
		if err != nil {
			return nil, inputErrorf(f.Name, "invalid timestamp %q", s)
		}
		return t, nil
	}
	return raw, nil
}

func coerceInt(name string, raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		fl, err := v.Float64()
		if err != nil || fl != math.Trunc(fl) {
			return 0, inputErrorf(name, "expected %s", KindInt)
		}
		return int64(fl), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, inputErrorf(name, "expected %s", KindInt)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, inputErrorf(name, "expected %s", KindInt)
		}
		return n, nil
	}
	return 0, inputErrorf(name, "expected %s", KindInt)
}

func coerceFloat(name string, raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		fl, err := v.Float64()
		if err != nil {
			return 0, inputErrorf(name, "expected %s", KindFloat)
		}
		return fl, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		fl, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, inputErrorf(name, "expected %s", KindFloat)
		}
		return fl, nil
	}
	return 0, inputErrorf(name, "expected %s", KindFloat)
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
