package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row matches the requested primary key.
var ErrNotFound = errors.New("record not found")

// InputError reports a caller mistake: a bad field value, invalid paging or
// an empty update. It is never a storage failure.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func inputErrorf(field, format string, args ...any) error {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
