// Package shellquote wraps caller-controlled text for POSIX shells.
package shellquote

import "strings"

// Escape replaces each single quote with the close-escape-reopen sequence
// '\'' so the result is safe inside a single-quoted word.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// Quote returns s as one single-quoted shell word.
func Quote(s string) string {
	return "'" + Escape(s) + "'"
}
