package core

// convert.go provides cell-level parsing for worksheet data.
//
// These functions handle the messy reality of user-provided spreadsheet
// cells:
//   - Age buckets as single integers ("34") or inclusive ranges ("18-23")
//   - Currency symbols and thousand separators in premium amounts
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Excel formula prefixes (="value") and stray quotes

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after
// cleanup. Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Date layouts accepted in the DateFrom/DateTo metadata columns.
// Four-digit-year layouts only; the rating sheets never use two-digit years.
var dateLayouts = []string{
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
	"2006-01-02", "2006/01/02", "2006.01.02",
	"Jan 2, 2006", "2 Jan 2006",
	"20060102",
}

// outputDateLayout is the downstream date format: month/day/year with no
// leading zeros (3/1/2024, not 03/01/2024).
const outputDateLayout = "1/2/2006"

// parseAgeRange parses an Age cell into an inclusive [from, to] range.
// A single integer N yields (N, N). Whitespace around the value and the
// hyphen is tolerated. Anything else - including a reversed range - is
// rejected; the caller wraps the failure in a ParseError.
func parseAgeRange(s string) (from, to int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}

	lo, hi, found := strings.Cut(s, "-")
	if !found {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}

	from, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, false
	}
	to, err = strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, false
	}
	if from > to {
		return 0, 0, false
	}
	return from, to, true
}

// parsePremium parses a premium cell. A blank cell is missing (skip the
// row for this option, no error). A non-blank cell that survives
// currency cleanup but is still not numeric is a type failure.
func parsePremium(s string) (value float64, missing bool, ok bool) {
	s = CleanCell(s)
	if s == "" {
		return 0, true, true
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false, false
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	return value, false, true
}

// roundPremium rounds to the nearest integer, ties away from zero, so
// 450.5 becomes 451. Integral inputs are unchanged.
func roundPremium(v float64) int {
	return int(math.Round(v))
}

// normalizeDate reformats a date cell to month/day/year with no leading
// zeros. Values that match none of the accepted layouts pass through
// unchanged: the source sheets occasionally carry free-text effective
// dates and those must survive the round trip.
func normalizeDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(outputDateLayout)
		}
	}
	return s
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// trims whitespace, strips an Excel formula prefix (="..."), and drops
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// equalColumn compares two column headers ignoring case and surrounding
// whitespace.
func equalColumn(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
