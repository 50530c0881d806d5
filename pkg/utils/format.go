// Package utils provides common utility functions for coinview.
package utils

import (
	"fmt"
	"math"
)

// FormatUSD formats an amount as a dollar string with thousands grouping,
// e.g. 67421.554 -> "$67,421.55".
func FormatUSD(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	intPart := int64(amount)
	cents := int64(math.Round((amount - float64(intPart)) * 100))
	if cents >= 100 {
		// Rounding carried into the integer part
		intPart++
		cents -= 100
	}

	formatted := fmt.Sprintf("%s.%02d", groupThousands(intPart), cents)
	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 -> "+2.45%", -1.23 -> "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatVolume formats a trade volume as a grouped integer,
// e.g. 1234567.8 -> "1,234,568".
func FormatVolume(volume float64) string {
	negative := volume < 0
	n := int64(math.Round(math.Abs(volume)))
	if negative {
		return "-" + groupThousands(n)
	}
	return groupThousands(n)
}

// groupThousands formats an integer with comma grouping in threes.
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	result := s[len(s)-3:]
	remaining := s[:len(s)-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}
