package reservation

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// NormalizeDate drops the clock part, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseTimeOfDay turns "HH:MM" (24h) into minutes since midnight.
func ParseTimeOfDay(s string) (int, error) {
	if len(s) != len(TimeLayout) {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidateDateRange requires start < end on calendar dates.
func ValidateDateRange(start, end time.Time) error {
	s, e := NormalizeDate(start), NormalizeDate(end)
	if !s.Before(e) {
		return &InvalidRangeError{Start: s.Format(DateLayout), End: e.Format(DateLayout)}
	}
	return nil
}

// DatesOverlap reports whether [aStart, aEnd) and [bStart, bEnd) share a day.
// A range ending on D does not overlap one starting on D.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) (bool, error) {
	if err := ValidateDateRange(aStart, aEnd); err != nil {
		return false, err
	}
	if err := ValidateDateRange(bStart, bEnd); err != nil {
		return false, err
	}
	return NormalizeDate(aStart).Before(NormalizeDate(bEnd)) &&
		NormalizeDate(bStart).Before(NormalizeDate(aEnd)), nil
}

// ParseTimeRange parses and validates a half-open "HH:MM" window.
func ParseTimeRange(start, end string) (int, int, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return 0, 0, &InvalidRangeError{Start: start, End: end, Reason: err.Error()}
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return 0, 0, &InvalidRangeError{Start: start, End: end, Reason: err.Error()}
	}
	if s >= e {
		return 0, 0, &InvalidRangeError{Start: start, End: end}
	}
	return s, e, nil
}

// TimesOverlap is DatesOverlap for time-of-day windows within one day.
func TimesOverlap(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, ae, err := ParseTimeRange(aStart, aEnd)
	if err != nil {
		return false, err
	}
	bs, be, err := ParseTimeRange(bStart, bEnd)
	if err != nil {
		return false, err
	}
	return minutesOverlap(as, ae, bs, be), nil
}

func minutesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
