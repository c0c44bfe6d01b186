package shellquote

import (
	"strings"
	"testing"
)

// unquote applies the shell rule for a sequence of single-quoted words and
// backslash escapes, enough to reverse Quote.
func unquote(t *testing.T, s string) string {
	t.Helper()
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case !inQuote && c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case !inQuote:
			t.Fatalf("unexpected unquoted byte %q in %s", c, s)
		default:
			b.WriteByte(c)
		}
	}
	if inQuote {
		t.Fatalf("unterminated quote in %s", s)
	}
	return b.String()
}

func TestQuoteRoundTrip(t *testing.T) {
	inputs := []string{
		"alice.near",
		"o'brien.testnet",
		"''",
		`it's "quoted" \ back`,
		"",
		"$(rm -rf /); `id`",
	}
	for _, in := range inputs {
		q := Quote(in)
		if got := unquote(t, q); got != in {
			t.Fatalf("round trip mismatch: in=%q quoted=%s got=%q", in, q, got)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := Escape("a'b"); got != `a'\''b` {
		t.Fatalf("unexpected escape: %s", got)
	}
}
