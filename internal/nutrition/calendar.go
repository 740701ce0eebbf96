package nutrition

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %q", s)
	}
	return t, nil
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayWindow returns [midnight, next midnight) for the day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := DayStart(t)
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the half-open seven-day window [from, to) containing
// t whose first day is start.
func WeekWindow(t time.Time, start time.Weekday) (time.Time, time.Time) {
	day := DayStart(t)
	offset := (int(day.Weekday()) - int(start) + 7) % 7
	from := day.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 7)
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}
