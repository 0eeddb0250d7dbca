package entry

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateOnly truncates t to its calendar day at UTC midnight, the form every
// stored and compared entry date takes.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2006-01-02" and full RFC 3339 timestamps.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateOnly(t), true
	}
	if len(raw) >= len(DateLayout) {
		if d, err := time.Parse(DateLayout, raw[:len(DateLayout)]); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
