// Package validate holds the field validation rules shared by all domain
// entities. Every constructor and setter funnels through these helpers, so an
// entity value that exists always satisfies its invariants.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-\(\)]{7,}$`)
)

// Error reports a field value that violates its invariant. It is always
// recoverable: the caller fixes the input and retries, and no state has been
// mutated.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Name returns the trimmed name, rejecting empty values.
func Name(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &Error{Field: "name", Reason: "must not be empty"}
	}
	return v, nil
}

// Email returns the trimmed email. Empty is allowed; anything else must match
// the local@domain.tld pattern.
func Email(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" && !emailRe.MatchString(v) {
		return "", &Error{Field: "email", Reason: fmt.Sprintf("%q is not a valid address", v)}
	}
	return v, nil
}

// Phone returns the trimmed phone number. Empty is allowed; anything else
// must be digits with optional spacing/punctuation, at least 8 characters,
// optional leading +.
func Phone(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" && !phoneRe.MatchString(v) {
		return "", &Error{Field: "phone", Reason: fmt.Sprintf("%q is not a valid number", v)}
	}
	return v, nil
}

// Title returns the trimmed product title, rejecting empty values.
func Title(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &Error{Field: "title", Reason: "must not be empty"}
	}
	return v, nil
}

// Price returns the price rounded to 2 decimal places, rejecting negatives.
func Price(v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Zero, &Error{Field: "price", Reason: "must not be negative"}
	}
	return v.Round(2), nil
}

// Quantity rejects quantities below 1.
func Quantity(v int) (int, error) {
	if v < 1 {
		return 0, &Error{Field: "quantity", Reason: "must be at least 1"}
	}
	return v, nil
}
