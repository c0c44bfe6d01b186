package amount

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestToNEAR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "0.000000000000000000000001"},
		{"1000000000000000000000000", "1"},
		{"1500000000000000000000000", "1.5"},
		{"250000000000000000000000", "0.25"},
		{"12345000000000000000000000", "12.345"},
	}
	for _, tt := range tests {
		if got := ToNEAR(tt.in); got != tt.want {
			t.Errorf("ToNEAR(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToTgas(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"30000000000000", "30"},
		{"300000000000000", "300"},
		{"1500000000000", "1.5"},
		{"1", "0.000000000001"},
	}
	for _, tt := range tests {
		if got := ToTgas(tt.in); got != tt.want {
			t.Errorf("ToTgas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, v := range []string{"0", "42", "000100"} {
		if !Valid(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	for _, v := range []string{"", "-1", "1.5", "1e3", " 1"} {
		if Valid(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

// unformat reverses Format for canonical (no leading zero) inputs.
func unformat(v string, decimals int) string {
	intPart, fracPart, _ := strings.Cut(v, ".")
	fracPart += strings.Repeat("0", decimals-len(fracPart))
	out := strings.TrimLeft(intPart+fracPart, "0")
	if out == "" {
		return "0"
	}
	return out
}

func TestFormatRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	canonical := gen.NumString().Map(func(s string) string {
		s = strings.TrimLeft(s, "0")
		if s == "" {
			return "0"
		}
		return s
	})

	for _, decimals := range []int{NEARDecimals, TgasDecimals} {
		decimals := decimals
		properties.Property("format is lossless", prop.ForAll(
			func(units string) bool {
				return unformat(Format(units, decimals), decimals) == units
			},
			canonical,
		))
		properties.Property("fraction never ends in zero", prop.ForAll(
			func(units string) bool {
				out := Format(units, decimals)
				return !strings.Contains(out, ".") || !strings.HasSuffix(out, "0")
			},
			canonical,
		))
	}

	properties.TestingRun(t)
}
