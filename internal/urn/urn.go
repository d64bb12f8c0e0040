// Package urn handles qualified identifiers of the form "namespace:basename".
package urn

import (
	"fmt"
	"strings"
)

// Separator splits the namespace from the basename.
const Separator = ":"

// InvalidCharError reports the first character of a urn outside [a-z0-9_:]
type InvalidCharError struct {
	URN  string
	Char rune
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("invalid char %q in urn %q", e.Char, e.URN)
}

// Basename returns the text after the last separator, or the whole urn
// when it has no namespace.
func Basename(urn string) string {
	if i := strings.LastIndex(urn, Separator); i >= 0 {
		return urn[i+1:]
	}
	return urn
}

// Namespace returns the text before the last separator. A urn without a
// separator is its own namespace.
func Namespace(urn string) string {
	if i := strings.LastIndex(urn, Separator); i >= 0 {
		return urn[:i]
	}
	return urn
}

// IsValid checks that urn only holds lowercase alphanumerics, '_' and ':'.
func IsValid(urn string) error {
	for _, c := range urn {
		switch {
		case c == ':' || c == '_':
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			return &InvalidCharError{URN: urn, Char: c}
		}
	}
	return nil
}

// IsSnakeCase reports whether text is non-empty and only holds lowercase
// alphanumerics and '_'.
func IsSnakeCase(text string) bool {
	if text == "" {
		return false
	}
	for _, c := range text {
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
