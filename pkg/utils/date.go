package utils

import (
	"fmt"
	"time"
)

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// Nights lists every night in [from, to) in ascending order.
func Nights(from, to time.Time) []time.Time {
	from, to = DateOnly(from), DateOnly(to)
	var nights []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
