// Package core provides the domain types of the donation ledger: money in
// micro-units, donors, categories, expenditures, and the error taxonomy
// surfaced to callers.
//
// This file contains money parsing and formatting. All accounting is done
// in integer micro-units (one millionth of the base asset); floating point
// never enters a balance computation.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// MicrosPerUnit is the number of micro-units in one unit of the base asset.
const MicrosPerUnit = 1_000_000

// MinDonationMicros is the default minimum accepted donation (0.1 unit).
const MinDonationMicros = 100_000

// Money is an amount in micro-units of the single base asset.
type Money struct {
	Micros int64
}

// Validate rejects non-positive amounts.
func (m Money) Validate() error {
	if m.Micros <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the amount in base-asset units for display purposes only.
// Use micro-units for all calculations.
func (m Money) Units() float64 {
	return float64(m.Micros) / MicrosPerUnit
}

// ParseDecimalToMicros converts a decimal string to micro-units with
// half-up rounding on the seventh decimal digit.
//
// It accepts both dot (1.5) and comma (1,5) decimal separators. The result
// is always positive micro-units; invalid formats, signs, and zero amounts
// are rejected.
//
// Examples:
//
//	ParseDecimalToMicros("1.5") -> 1500000, nil
//	ParseDecimalToMicros("0,1") -> 100000, nil
//	ParseDecimalToMicros("0.00000049") -> 0, ErrInvalidAmount (rounds to zero)
func ParseDecimalToMicros(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when scaling to micro-units
	const maxSafeInt64 = (1<<63 - 1) / MicrosPerUnit
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take the first six fractional digits; half-up rounding on the seventh
	var fracMicros int64
	scale := int64(MicrosPerUnit / 10)
	for i := 0; i < len(fracPart) && i < 6; i++ {
		fracMicros += int64(fracPart[i]-'0') * scale
		scale /= 10
	}
	if len(fracPart) > 6 && fracPart[6] >= '5' {
		fracMicros++
	}
	micros := iv*MicrosPerUnit + fracMicros
	if micros <= 0 {
		return 0, ErrInvalidAmount
	}
	return micros, nil
}

// FormatUnits renders micro-units as a decimal string in base-asset units,
// trimming trailing fractional zeros (e.g. 1500000 -> "1.5").
func FormatUnits(micros int64) string {
	neg := micros < 0
	if neg {
		micros = -micros
	}
	units := micros / MicrosPerUnit
	rem := micros % MicrosPerUnit
	s := strconv.FormatInt(units, 10)
	if rem > 0 {
		frac := strings.TrimRight(strconv.FormatInt(rem+MicrosPerUnit, 10)[1:], "0")
		s += "." + frac
	}
	if neg {
		return "-" + s
	}
	return s
}
