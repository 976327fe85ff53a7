package services

import (
	"math"
	"regexp"
	"time"
)

// CooldownDays is the minimum gap between two bookings by the same employee
const CooldownDays = 7

// DateLayout is the wire format for booking dates
const DateLayout = "2006-01-02"

var employeeNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]{2,50}$`)

// IsValidEmployeeName reports whether a trimmed employee name is
// 2-50 characters of letters, digits and spaces
func IsValidEmployeeName(name string) bool {
	return employeeNamePattern.MatchString(name)
}

// LocalMidnight truncates a time to midnight in its own location
func LocalMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseBookingDate parses a YYYY-MM-DD string into a local calendar date.
// The date must be a real calendar day and must not be before today.
func ParseBookingDate(value string, now time.Time) (time.Time, bool) {
	parsed, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	// Reject normalized dates like 2025-02-30 → March 2
	if parsed.Format(DateLayout) != value {
		return time.Time{}, false
	}
	if parsed.Before(LocalMidnight(now)) {
		return time.Time{}, false
	}
	return parsed, true
}

// IsBusinessDay reports whether a date falls on Monday through Friday
func IsBusinessDay(date time.Time) bool {
	day := date.Weekday()
	return day != time.Saturday && day != time.Sunday
}

// DaysBetween returns the absolute calendar-day distance between two dates.
// Midnight-to-midnight gaps across a DST switch are an hour off a multiple
// of 24, so the quotient is rounded rather than truncated.
func DaysBetween(a, b time.Time) int {
	diff := LocalMidnight(a).Sub(LocalMidnight(b))
	days := int(math.Round(diff.Hours() / 24))
	if days < 0 {
		return -days
	}
	return days
}

// WithinCooldown reports whether any of an employee's existing booking
// dates lies within CooldownDays of the candidate date
func WithinCooldown(existingDates []string, candidate time.Time) bool {
	for _, value := range existingDates {
		date, err := time.ParseInLocation(DateLayout, value, candidate.Location())
		if err != nil {
			continue
		}
		if DaysBetween(candidate, date) <= CooldownDays {
			return true
		}
	}
	return false
}
