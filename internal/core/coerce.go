package core

import (
	"strconv"
	"strings"
)

// Shared cell coercion helpers. Spreadsheet cells arrive untyped; every
// extractor goes through these instead of coercing inline at call sites.

// CleanString trims a cell value, mapping missing cells to "".
func CleanString(v string) string {
	return strings.TrimSpace(v)
}

// ParseAmount coerces a numeric cell with the blank-means-zero policy.
// Thousands separators are tolerated because formatted values arrive with
// them ("1,234.5").
func ParseAmount(v string) float64 {
	v = strings.ReplaceAll(CleanString(v), ",", "")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// ParsePositiveInt coerces a rotation-count style cell. Anything that is
// not a whole positive number ("", "x", "0", "1.5") reports ok=false.
func ParsePositiveInt(v string) (int, bool) {
	v = CleanString(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}

// IsBareNumber reports whether the whole string parses cleanly as a plain
// number. Date-separator characters disqualify the value outright so that
// an ISO string like "2023-03-15" can never be mistaken for the serial
// 2023 by a prefix parse.
func IsBareNumber(v string) bool {
	v = CleanString(v)
	if v == "" {
		return false
	}
	if strings.ContainsAny(v, "-/.:년월일 ") && !isDecimal(v) {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// isDecimal allows a single '.' as a decimal point ("45000.5") while still
// rejecting dotted dates ("2023.03.15").
func isDecimal(v string) bool {
	if strings.Count(v, ".") != 1 || strings.ContainsAny(v, "-/:년월일 ") {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}
