// Package normalize provides canonical forms for user-entered names.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Name trims surrounding whitespace and composes the string into NFC so that
// visually identical names compare equal.
func Name(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NameKey returns the case-folded form of a trimmed name.
// Two places are duplicates iff their keys are equal.
// "  Starbucks " and "STARBUCKS" share the key "starbucks".
func NameKey(s string) string {
	return cases.Fold().String(Name(s))
}

// SameName reports whether a and b are equal ignoring case and surrounding whitespace.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}

// TagNames trims each tag name, drops empties and removes case-insensitive
// duplicates. The first spelling of a duplicate wins and order is kept.
func TagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = Name(n)
		if n == "" {
			continue
		}
		key := NameKey(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// HexColor uppercases a "#rrggbb" color and adds the leading hash if missing.
// Returns "" for empty input.
func HexColor(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToUpper(s)
}
