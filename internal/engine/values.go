package engine

import (
	"regexp"
	"strconv"
	"strings"
)

var numericValue = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// CleanValue trims a cell, drops one leading "$" and every comma.
func CleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	return strings.TrimSpace(v)
}

// ParseAmount parses an already cleaned cell. The whole value must be a
// plain decimal number.
func ParseAmount(v string) (float64, bool) {
	if !numericValue.MatchString(v) {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PositiveAmount reports whether v cleans to a number greater than zero.
func PositiveAmount(v string) bool {
	n, ok := ParseAmount(CleanValue(v))
	return ok && n > 0
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
