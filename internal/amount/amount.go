// Package amount renders smallest-unit integer strings as decimal strings
// without going through floating point.
package amount

import "strings"

const (
	// NEARDecimals is the number of yoctoNEAR digits in one NEAR.
	NEARDecimals = 24
	// TgasDecimals is the number of gas units digits in one Tgas.
	TgasDecimals = 12
)

// Format converts a base-unit digit string into its decimal form with the
// given number of fractional digits. Trailing fractional zeros are dropped.
func Format(units string, decimals int) string {
	if decimals <= 0 {
		return units
	}
	padded := units
	if len(padded) < decimals+1 {
		padded = strings.Repeat("0", decimals+1-len(padded)) + padded
	}
	intPart := padded[:len(padded)-decimals]
	if intPart == "" {
		intPart = "0"
	}
	fracPart := strings.TrimRight(padded[len(padded)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// ToNEAR formats a yoctoNEAR amount as NEAR.
func ToNEAR(yocto string) string {
	return Format(yocto, NEARDecimals)
}

// ToTgas formats a gas amount as Tgas.
func ToTgas(gas string) string {
	return Format(gas, TgasDecimals)
}

// Valid reports whether v is a non-empty string of decimal digits.
func Valid(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
