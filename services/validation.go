package services

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxPageLimit = 100

// validator accumulates field errors; the first message per field wins.
type validator struct {
	fields map[string]string
}

func newValidator() *validator {
	return &validator{fields: make(map[string]string)}
}

func (v *validator) check(ok bool, field, message string) {
	if ok {
		return
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

func (v *validator) minLen(s *string, required bool, field string, n int) {
	if s == nil {
		v.check(!required, field, "is required")
		return
	}
	v.check(utf8.RuneCountInString(strings.TrimSpace(*s)) >= n, field, fmt.Sprintf("must be at least %d characters", n))
}

func (v *validator) url(s *string, required bool, field string) {
	if s == nil {
		v.check(!required, field, "is required")
		return
	}
	v.check(isURL(*s), field, "must be a valid URL")
}

func (v *validator) email(s string, field string) {
	v.check(isEmail(s), field, "invalid email address")
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// normalizePage applies defaults to page and limit. Zero means "not given";
// negative values are rejected and the limit is capped at maxPageLimit.
func normalizePage(page, limit, defaultLimit int) (int, int, error) {
	v := newValidator()
	v.check(page >= 0, "page", "must be a positive number")
	v.check(limit >= 0, "limit", "must be a positive number")
	if err := v.err(); err != nil {
		return 0, 0, err
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	// OFFSET = (page-1)*limit должен помещаться в int.
	if page-1 > math.MaxInt/limit {
		return 0, 0, &ValidationError{Fields: map[string]string{"page": "is too large"}}
	}
	return page, limit, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
