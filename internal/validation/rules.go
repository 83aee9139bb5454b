package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Required rejects blank strings.
func Required() Rule[string] {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("is required")
		}
		return nil
	}
}

// Length bounds the rune count of s; both bounds are inclusive.
func Length(min, max int) Rule[string] {
	return func(s string) error {
		n := utf8.RuneCountInString(s)
		if n < min {
			return fmt.Errorf("must be at least %d characters", min)
		}
		if max > 0 && n > max {
			return fmt.Errorf("must be at most %d characters", max)
		}
		return nil
	}
}

// MinLength is Length without an upper bound.
func MinLength(min int) Rule[string] {
	return Length(min, 0)
}

// Digits requires exactly n ASCII digits.
func Digits(n int) Rule[string] {
	msg := fmt.Sprintf("must be exactly %d digits", n)
	return func(s string) error {
		return tag(s, fmt.Sprintf("len=%d,number", n), msg)
	}
}

// Email requires a syntactically valid address.
func Email() Rule[string] {
	return func(s string) error {
		return tag(s, "email", "must be a valid email address")
	}
}

// URL requires an absolute URL.
func URL() Rule[string] {
	return func(s string) error {
		return tag(s, "url", "must be a valid URL")
	}
}

// Matches requires s to match at least one of the patterns.
func Matches(message string, patterns ...*regexp.Regexp) Rule[string] {
	return func(s string) error {
		for _, p := range patterns {
			if p.MatchString(s) {
				return nil
			}
		}
		return errors.New(message)
	}
}

// Equals requires s to equal other.
func Equals(other, message string) Rule[string] {
	return func(s string) error {
		if s != other {
			return errors.New(message)
		}
		return nil
	}
}

// Differs requires s to differ from other.
func Differs(other, message string) Rule[string] {
	return func(s string) error {
		if s == other {
			return errors.New(message)
		}
		return nil
	}
}

// Optional skips the wrapped rules for blank strings.
func Optional(rules ...Rule[string]) Rule[string] {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		for _, rule := range rules {
			if err := rule(s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Between bounds an integer inclusively.
func Between(min, max int) Rule[int] {
	return func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

// Positive requires v > 0.
func Positive() Rule[int] {
	return func(v int) error {
		if v <= 0 {
			return errors.New("must be greater than 0")
		}
		return nil
	}
}

// ToInt parses a decimal integer.
func ToInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("must be a whole number")
	}
	return v, nil
}

// ToOptionalInt parses a decimal integer, treating blank input as absent.
func ToOptionalInt(s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := ToInt(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DateLayout is the form date format.
const DateLayout = "2006-01-02"

// ToDate parses a YYYY-MM-DD date and returns it normalised.
func ToDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", errors.New("must be a date in YYYY-MM-DD format")
	}
	return t.Format(DateLayout), nil
}
