// Package names derives display names for records crossing the
// lead/customer boundary. All functions are pure and deterministic.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FullName joins the non-empty trimmed parts with a single space. Both parts
// absent yields the empty string. The result is NFC-normalized so the same
// name typed with combining characters compares equal.
func FullName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)

	switch {
	case first == "" && last == "":
		return ""
	case first == "":
		return norm.NFC.String(last)
	case last == "":
		return norm.NFC.String(first)
	}
	return norm.NFC.String(first + " " + last)
}

// EnsureName recomputes the display name when either name part is present.
// With both parts absent the existing name is kept as-is.
func EnsureName(first, last, name string) string {
	if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
		return name
	}
	return FullName(first, last)
}

// Consistent reports whether name matches the parts it was derived from.
// A record missing either part is vacuously consistent.
func Consistent(first, last, name string) bool {
	if strings.TrimSpace(first) == "" || strings.TrimSpace(last) == "" {
		return true
	}
	return name == FullName(first, last)
}

// Split breaks a legacy single-field name on the first whitespace run:
// everything before it is the first name, the trimmed remainder the last
// name. Single-word input becomes the first name with an empty last name.
func Split(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if i := strings.IndexFunc(name, unicode.IsSpace); i >= 0 {
		return name[:i], strings.TrimSpace(name[i:])
	}
	return name, ""
}
