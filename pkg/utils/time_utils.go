package utils

import "time"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FormatRFC3339 renders t for API responses, empty string for zero time.
func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatRFC3339Ptr is FormatRFC3339 over nullable timestamps.
func FormatRFC3339Ptr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatRFC3339(*t)
}
