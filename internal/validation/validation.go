// Package validation holds the pure field predicates used by the
// identity pipeline. Each predicate checks exactly one rule and has no
// side effects; callers decide order and error messages.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	mailPattern  = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	idPattern    = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// IsValidString reports whether v is non-empty after trimming whitespace.
func IsValidString(v string) bool {
	return strings.TrimSpace(v) != ""
}

// IsValidName reports whether v is a usable full name: non-empty,
// contains no digits, and at most 50 characters.
func IsValidName(v string) bool {
	if !IsValidString(v) {
		return false
	}
	if digitPattern.MatchString(v) {
		return false
	}
	return len(v) <= 50
}

// IsValidMail reports whether v has a local@domain.tld shape.
func IsValidMail(v string) bool {
	return mailPattern.MatchString(v)
}

// IsValidPhone reports whether v is exactly ten digits.
func IsValidPhone(v string) bool {
	return phonePattern.MatchString(v)
}

// IsValidPassword reports whether v is 8-15 characters long and
// contains at least one uppercase letter, one lowercase letter, one
// digit and one special character.
func IsValidPassword(v string) bool {
	if len(v) < 8 || len(v) > 15 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range v {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// IsConfirmPasswordMatch reports whether the two raw (pre-hash) values
// are identical.
func IsConfirmPasswordMatch(password, confirm string) bool {
	return password == confirm
}

// IsValidID reports whether v is a 24-hex-character object id.
func IsValidID(v string) bool {
	return idPattern.MatchString(v)
}
