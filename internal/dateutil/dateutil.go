// Package dateutil provides time-zone aware day arithmetic for the guide.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // guide time zones must resolve on hosts without zoneinfo
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidDayArg     = errors.New("day must be today, tomorrow, a weekday, +N or YYYY-MM-DD")
)

// DayKeyLayout is the format of day keys.
const DayKeyLayout = "2006-01-02"

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadLocation resolves a time zone name, treating "" and "Local" as the local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return loc, nil
}

// DayKey returns the calendar date of t in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// DayKeys returns n consecutive day keys starting with the day containing now.
func DayKeys(now time.Time, n int, loc *time.Location) []string {
	start := TruncateToDay(now.In(loc))
	keys := make([]string, 0, n)
	for i := range n {
		keys = append(keys, start.AddDate(0, 0, i).Format(DayKeyLayout))
	}
	return keys
}

// DayStart returns midnight of the given day key in loc.
func DayStart(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// MinutesSinceMidnight returns the wall-clock minutes of t in loc.
func MinutesSinceMidnight(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// FormatDayLabel formats a day as "01/02(Mon)".
func FormatDayLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("01/02(Mon)")
}

// ParseDate parses a date string in YYYY-MM-DD format in loc.
// If the string is empty, returns today's date.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation(DayKeyLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDayArg resolves a day argument to a day key relative to now in loc.
//   - Empty string or "today"
//   - "tomorrow"
//   - Offsets: "+1", "+3"
//   - Weekday names: "monday" through "sunday" (next occurrence, today included)
//   - Absolute date: "2025-01-15"
//
// All inputs are case-insensitive.
func ParseDayArg(s string, now time.Time, loc *time.Location) (string, error) {
	today := TruncateToDay(now.In(loc))
	input := strings.ToLower(strings.TrimSpace(s))

	switch {
	case input == "" || input == "today":
		return today.Format(DayKeyLayout), nil
	case input == "tomorrow":
		return today.AddDate(0, 0, 1).Format(DayKeyLayout), nil
	case strings.HasPrefix(input, "+"):
		n, err := strconv.Atoi(input[1:])
		if err != nil || n < 0 {
			return "", ErrInvalidDayArg
		}
		return today.AddDate(0, 0, n).Format(DayKeyLayout), nil
	}

	if target, ok := weekdayMap[input]; ok {
		return nextWeekday(today, target).Format(DayKeyLayout), nil
	}

	t, err := time.ParseInLocation(DayKeyLayout, input, loc)
	if err != nil {
		return "", ErrInvalidDayArg
	}
	return t.Format(DayKeyLayout), nil
}

// nextWeekday returns the next occurrence of the given weekday, today included.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil < 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
