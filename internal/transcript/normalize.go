package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeCell canonicalizes a raw table cell: full-width characters
// are folded to their narrow forms (transcripts frequently use
// full-width digits and latin letters), all whitespace runs including
// embedded newlines collapse to a single space, and the result is
// trimmed.
func NormalizeCell(s string) string {
	if s == "" {
		return ""
	}
	s = width.Narrow.String(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeRow normalizes every cell of a row and pads it to the given
// width so ragged extractor output indexes safely.
func NormalizeRow(row []string, cols int) []string {
	if cols < len(row) {
		cols = len(row)
	}
	out := make([]string, cols)
	for i, cell := range row {
		out[i] = NormalizeCell(cell)
	}
	return out
}

// ContainsCJK reports whether the string contains at least one CJK
// ideograph. Real subject names on the targeted transcripts always do.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the string parses as an unsigned decimal
// number.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && !strings.ContainsAny(s, "+-eE")
}

// ParseNumber parses an unsigned decimal number, returning 0 on
// failure.
func ParseNumber(s string) float64 {
	if !IsNumeric(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
