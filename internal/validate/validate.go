// Package validate collects per-field input problems into a single
// validation error.
package validate

import (
	"regexp"
	"strings"

	"github.com/villageveggies/backend/internal/apperr"
)

var (
	zipRe    = regexp.MustCompile(`^[0-9]{5}$`)
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
)

// Zip reports whether s is exactly five ASCII digits.
func Zip(s string) bool { return zipRe.MatchString(s) }

// Digits reports whether s is a non-empty run of ASCII digits.
func Digits(s string) bool { return digitsRe.MatchString(s) }

// Fields accumulates field -> problem messages. The first problem recorded
// for a field wins.
type Fields map[string]string

func (f Fields) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Required flags value when it is blank after trimming.
func (f Fields) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, "is required")
	}
}

// Zip flags a non-empty value that is not a 5-digit ZIP code.
func (f Fields) Zip(field, value string) {
	if value != "" && !Zip(value) {
		f.add(field, "must be exactly 5 digits")
	}
}

// Email flags a non-empty value without an @ between two non-empty parts.
func (f Fields) Email(field, value string) {
	if value == "" {
		return
	}
	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 {
		f.add(field, "must be an email address")
	}
}

// Check records msg against field when bad is true.
func (f Fields) Check(bad bool, field, msg string) {
	if bad {
		f.add(field, msg)
	}
}

// Err returns nil when nothing was recorded, otherwise a validation error
// carrying the details.
func (f Fields) Err(msg string) error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Invalid(msg, map[string]string(f))
}
