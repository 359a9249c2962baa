// utils/dates.go
package utils

import (
	"errors"
	"time"
)

const DisplayDate = "02/01/2006"

var ErrInvalidDate = errors.New("invalid date")

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// WeekBounds returns the Monday starting t's week and the following Monday.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := BeginningOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// ParseBirthDate reads a dd/mm/yyyy date that is not in the future relative to now.
func ParseBirthDate(value string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation(DisplayDate, value, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if d.After(now) || d.Year() < 1900 {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DisplayDate)
}
