// Package utils provides common utility functions for stockstrip.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD formats a number as US dollars with thousands grouping
// ($1,234,567.89).
func FormatUSD(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	whole, frac, _ := strings.Cut(fmt.Sprintf("%.2f", amount), ".")
	formatted := groupThousands(whole) + "." + frac

	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatCompact formats a number in compact notation.
// e.g., 1500 → "1.5K", 2870000000000 → "2.87T"
func FormatCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	prefix := ""
	if negative {
		prefix = "-"
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%sT", prefix, formatWithDecimals(amount/1e12))
	case amount >= 1e9:
		return fmt.Sprintf("%s%sB", prefix, formatWithDecimals(amount/1e9))
	case amount >= 1e6:
		return fmt.Sprintf("%s%sM", prefix, formatWithDecimals(amount/1e6))
	case amount >= 1e3:
		return fmt.Sprintf("%s%sK", prefix, formatWithDecimals(amount/1e3))
	default:
		return fmt.Sprintf("%s%s", prefix, formatWithDecimals(amount))
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatDays renders a cycle length as "<value rounded to 2dp> days".
// Trailing zeros are dropped, so 12.50 renders as "12.5 days".
func FormatDays(days float64) string {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		days = 0
	}
	return decimal.NewFromFloat(days).Round(2).String() + " days"
}

// groupThousands inserts comma grouping in threes into a digit string.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
