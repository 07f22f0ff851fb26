package utils

import (
	"medrec-service/internal/pkg/constvars"
	"strings"
	"time"
)

// ParseDate reads a YYYY-MM-DD calendar date as local midnight. Longer
// timestamps are accepted when they start with such a date. The second
// result is false for anything else.
func ParseDate(value string) (time.Time, bool) {
	return ParseDateIn(value, time.Local)
}

func ParseDateIn(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	n := len(constvars.DateLayout)
	if len(value) < n {
		return time.Time{}, false
	}
	if len(value) > n && value[n] != 'T' && value[n] != ' ' {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constvars.DateLayout, value[:n], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as a calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(constvars.DateLayout)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday that starts t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
