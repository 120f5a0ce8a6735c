package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	eightDigits = regexp.MustCompile(`^\d{8}$`)
	isoPrefix   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// NormalizeDate converts the date encodings observed across source
// integrations into a canonical "YYYY-MM-DD" string. Accepted inputs:
// time.Time, an 8-digit integer such as 20190315 (also as float64 from JSON
// decoding), an 8-digit string, or an ISO-prefixed string. Anything else,
// including nil, yields "" rather than an error; malformed dates are a data
// gap, not a failure.
func NormalizeDate(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format("2006-01-02")
	case int:
		return normalizeDateInt(int64(v))
	case int32:
		return normalizeDateInt(int64(v))
	case int64:
		return normalizeDateInt(v)
	case float64:
		return normalizeDateInt(int64(v))
	case string:
		return normalizeDateString(v)
	default:
		return ""
	}
}

func normalizeDateInt(v int64) string {
	// Exactly eight decimal digits; shorter values like 2019031 are
	// malformed, not a date with a leading zero.
	if v < 10_000_000 || v > 99_999_999 {
		return ""
	}
	s := fmt.Sprintf("%d", v)
	return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
}

func normalizeDateString(v string) string {
	trimmed := strings.TrimSpace(v)
	if eightDigits.MatchString(trimmed) {
		return trimmed[0:4] + "-" + trimmed[4:6] + "-" + trimmed[6:8]
	}
	if isoPrefix.MatchString(trimmed) {
		return trimmed[:10]
	}
	return ""
}

// DateToInt converts a "YYYY-MM-DD" (or bare 8-digit) date string into its
// YYYYMMDD integer encoding, the form the warehouse stores and the
// pagination cursor compares. Returns 0 for anything unparseable.
func DateToInt(value string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), "-", "")
	if !eightDigits.MatchString(cleaned) {
		return 0
	}
	var n int64
	for _, r := range cleaned {
		n = n*10 + int64(r-'0')
	}
	return n
}
