package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	slugStripRE  = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives a submission document key from a display name: lowercase,
// whitespace runs become "-", anything outside [a-z0-9-] is dropped.
//
//	Slugify("Gin & Tonic") == "gin--tonic"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRE.ReplaceAllString(s, "-")
	return slugStripRE.ReplaceAllString(s, "")
}

// NumericID extracts an integral identifier from a loosely typed document
// value. Non-numeric, fractional and missing values report false.
func NumericID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func trimmed(s string) string { return strings.TrimSpace(s) }
