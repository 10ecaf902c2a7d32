// Package money converts floating amounts to integer minor currency units.
// Everything sent to the order API or compared between obligations uses
// minor units so split arithmetic never drifts.
package money

import (
	"fmt"
	"math"
)

// ToMinorUnits converts a decimal amount to minor currency units (cents),
// rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts minor units back to a decimal amount for display.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// Format renders minor units as a plain decimal string, e.g. 10000 -> "100.00".
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
