// Package wallclock converts venue-local "HH:mm" wall-clock strings into
// instants and back. Bookings and shift punches both store full timestamps but
// settings express their windows as times of day, so the conversion lives in
// one place.
package wallclock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hhmmRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Minutes parses an "HH:mm" string into minutes since midnight.
func Minutes(hhmm string) (int, error) {
	m := hhmmRegex.FindStringSubmatch(strings.TrimSpace(hhmm))
	if m == nil {
		return 0, fmt.Errorf("invalid wall-clock time %q, expected HH:mm", hhmm)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

// IsValid reports whether s is a well-formed "HH:mm" time of day.
func IsValid(s string) bool {
	return hhmmRegex.MatchString(strings.TrimSpace(s))
}

// Combine places the wall-clock time on the calendar date of ref, in ref's
// location.
func Combine(ref time.Time, hhmm string) (time.Time, error) {
	total, err := Minutes(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := ref.Date()
	return time.Date(year, month, day, total/60, total%60, 0, 0, ref.Location()), nil
}

// CombineAfter is Combine with a "must not precede" anchor: when the naive
// combination lands before the anchor the date advances one calendar day.
// Handles end times that cross midnight relative to their start.
func CombineAfter(ref time.Time, hhmm string, anchor time.Time) (time.Time, error) {
	t, err := Combine(ref, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	if t.Before(anchor) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// RoundQuarter rounds to the nearest quarter hour; 45 minutes and beyond
// round up into the next hour.
func RoundQuarter(t time.Time) time.Time {
	return t.Round(15 * time.Minute)
}

// MinutesOfDay returns the wall-clock minute offset of t in its location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Within reports whether t's time of day falls inside the [from, to] window.
// Both bounds are inclusive.
func Within(t time.Time, from, to string) (bool, error) {
	lo, err := Minutes(from)
	if err != nil {
		return false, err
	}
	hi, err := Minutes(to)
	if err != nil {
		return false, err
	}
	at := MinutesOfDay(t)
	return at >= lo && at <= hi, nil
}

// DateKey formats t's calendar date as YYYY-MM-DD in t's location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
