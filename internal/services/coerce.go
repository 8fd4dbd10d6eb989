package services

import (
	"math"
	"strconv"
	"strings"
)

// Spreadsheet cells and grid edits arrive as heterogeneous text: blank,
// whitespace, the literal "nan" (a float NaN rendered back to text), a
// number, or a number-as-string. These parsers are total functions: they
// never fail, they return either a typed value or an explicit absent
// marker. Every component that touches operator-entered or
// spreadsheet-derived values goes through them.

// ParseOptionalText trims the value and maps blank and "nan" to "".
func ParseOptionalText(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// ParseOptionalNumber reports the numeric value of a cell, or absent for
// blank, "nan", NaN, or unparseable input.
func ParseOptionalNumber(s string) (float64, bool) {
	s = ParseOptionalText(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseOptionalInt is ParseOptionalNumber truncated toward zero, matching
// the int(float(x)) coercion the grid applies to quantities and ids.
func ParseOptionalInt(s string) (int64, bool) {
	v, ok := ParseOptionalNumber(s)
	if !ok {
		return 0, false
	}
	return int64(math.Trunc(v)), true
}
