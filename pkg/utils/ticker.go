package utils

import (
	"strconv"
	"strings"
)

// NormalizeTicker normalizes a user-input ticker to the form EDGAR and
// Yahoo both index by: upper case, no whitespace or "$" prefix, and share
// classes joined with "-" (brk.b -> BRK-B).
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (common in chat)
	ticker = strings.TrimPrefix(ticker, "$")

	return strings.ReplaceAll(ticker, ".", "-")
}

// PadCIK pads a CIK number to 10 digits with leading zeros.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}

// FormatCIK renders a numeric CIK in its padded form.
func FormatCIK(cik int) string {
	return PadCIK(strconv.Itoa(cik))
}

// IsNumeric reports whether s is a non-empty string of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
