package utils

import (
	"time"
)

// StampLayout is the timestamp layout used in provenance labels, matching
// the refresh stamps the upstream sources report.
const StampLayout = "2006-01-02 15:04:05"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Stamp formats a time as "2006-01-02 15:04:05" in UTC.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ParseStamp parses a "2006-01-02 15:04:05" timestamp as UTC. Upstream
// refresh stamps carry no zone; they are documented as UTC.
func ParseStamp(s string) (time.Time, error) {
	return time.ParseInLocation(StampLayout, s, time.UTC)
}

// FormatDate formats a time as "2006-01-02" in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
