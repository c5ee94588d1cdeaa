package domain

import (
	"fmt"
	"time"
)

// LocalDayKey formats t's calendar date in t's location as YYYY-MM-DD.
func LocalDayKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// NextMidnight returns 00:00:00.000 of the day after t, in t's location.
// time.Date normalizes day overflow and DST shifts.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
