// Package calendar provides calendar-date arithmetic for scheduling logic.
// All dates are normalized to midnight UTC so that comparisons are pure
// calendar-day comparisons, independent of wall-clock time or zone.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Clock supplies the current time. Production code uses RealClock; tests
// inject a FixedClock so that status classification is deterministic.
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Date builds a normalized calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize truncates t to its calendar date at midnight UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the clock's current calendar date.
func Today(clock Clock) time.Time {
	return Normalize(clock.Now())
}

// AddDays returns the calendar date n days after d.
func AddDays(d time.Time, n int) time.Time {
	return Normalize(d).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Normalize(a).Equal(Normalize(b))
}

// Before reports whether date a is strictly earlier than date b,
// comparing calendar dates only.
func Before(a, b time.Time) bool {
	return Normalize(a).Before(Normalize(b))
}

// WithinWindow reports whether d falls in [from, from+days], inclusive on
// both ends.
func WithinWindow(d, from time.Time, days int) bool {
	d = Normalize(d)
	from = Normalize(from)
	if d.Before(from) {
		return false
	}
	return !d.After(AddDays(from, days))
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is earlier than a.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD wire date into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Normalize(t), nil
}

// FormatDate renders a date in YYYY-MM-DD wire format.
func FormatDate(t time.Time) string {
	return Normalize(t).Format(DateLayout)
}
