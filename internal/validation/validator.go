// Package validation wraps go-playground/validator with the messages used by
// the HTTP and MCP surfaces.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxSearchLength bounds free-text search terms.
const MaxSearchLength = 500

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Error lists every failed field of a validated struct.
type Error struct {
	Fields   []string
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Get returns the shared validator. Field names in messages come from the
// `query`, `url` or `json` tag, in that order.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"query", "url", "json"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
		_ = validate.RegisterValidation("searchtext", func(fl validator.FieldLevel) bool {
			return SearchText(fl.Field().String()) == nil
		})
	})
	return validate
}

// Struct validates s, returning *Error when any rule fails.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fe.Field())
		out.Messages = append(out.Messages, translate(fe))
	}
	return out
}

var messages = map[string]string{
	"required":   "%s is required",
	"searchtext": "%s must be printable text of at most 500 bytes",
}

var messagesWithParam = map[string]string{
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
	"min": "%s must be at least %s",
	"max": "%s must be at most %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// SearchText rejects search terms that are too long, not UTF-8, or carry
// control characters.
func SearchText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("search text contains invalid UTF-8")
	}
	if len(s) > MaxSearchLength {
		return fmt.Errorf("search text exceeds maximum length of %d characters", MaxSearchLength)
	}
	for _, r := range s {
		if r < 32 || r == 127 {
			return fmt.Errorf("search text contains control characters")
		}
	}
	return nil
}
