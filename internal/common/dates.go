package common

import "time"

// DateLayout is the calendar-day format used for observation dates.
const DateLayout = "2006-01-02"

// TodayStr returns today's date in UTC as an observation date.
func TodayStr() string {
	return time.Now().UTC().Format(DateLayout)
}

// ValidDate reports whether s is a well-formed observation date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DaysAgoStr returns the UTC date n days before today.
func DaysAgoStr(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format(DateLayout)
}
