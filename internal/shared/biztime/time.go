// Package biztime holds the time conventions shared by ingestion, the plan
// index and the HTTP layer.
//
// Providers publish naive timestamps (no offset). They are interpreted as UTC
// everywhere, stored as epoch seconds in the index, and rendered back in UTC.
package biztime

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the provider and query parameter timestamp format.
	Layout = "2006-01-02T15:04:05"
	// DateLayout and ClockLayout are the two halves of Layout.
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseNaive parses a Layout timestamp as UTC.
func ParseNaive(value string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %s: %w", value, Layout, err)
	}
	return t, nil
}

// FormatNaive renders t in UTC using Layout.
func FormatNaive(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FromEpoch converts epoch seconds to a UTC time.
func FromEpoch(epoch int64) time.Time {
	return time.Unix(epoch, 0).UTC()
}

// SplitEpoch returns the UTC date and clock components of epoch seconds.
func SplitEpoch(epoch int64) (date, clock string) {
	t := FromEpoch(epoch)
	return t.Format(DateLayout), t.Format(ClockLayout)
}
