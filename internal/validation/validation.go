// Package validation holds the form schemas that gate every submission.
//
// A schema is a set of field checks run against one input. Every field is
// checked, so all failing fields are reported together; the first failing
// rule of a field supplies its message.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to its human readable message.
type FieldErrors map[string]string

// Error implements error with a stable, sorted rendering.
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldMessages exposes the per-field messages.
func (e FieldErrors) FieldMessages() map[string]string {
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Rule validates a single value and returns an error carrying the message.
type Rule[T any] func(T) error

// Collector accumulates field failures for one submission.
type Collector struct {
	errs FieldErrors
}

// Add records msg for field unless the field already failed.
func (c *Collector) Add(field, msg string) {
	if c.errs == nil {
		c.errs = FieldErrors{}
	}
	if _, exists := c.errs[field]; !exists {
		c.errs[field] = msg
	}
}

// Err returns the collected FieldErrors or nil.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// Check runs rules against value in order and records the first failure.
func Check[T any](c *Collector, field string, value T, rules ...Rule[T]) T {
	for _, rule := range rules {
		if err := rule(value); err != nil {
			c.Add(field, err.Error())
			break
		}
	}
	return value
}

// Convert coerces a raw value, records a failed conversion under field, and
// runs rules against the converted value when conversion succeeded.
func Convert[From, To any](c *Collector, field string, value From, conv func(From) (To, error), rules ...Rule[To]) To {
	out, err := conv(value)
	if err != nil {
		c.Add(field, err.Error())
		var zero To
		return zero
	}
	return Check(c, field, out, rules...)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// tag runs a go-playground validator tag against a single value.
func tag(value interface{}, tags, message string) error {
	if err := engine().Var(value, tags); err != nil {
		return errors.New(message)
	}
	return nil
}
