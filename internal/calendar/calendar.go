// Package calendar handles the canonical YYYY-MM-DD day keys used for
// activity records. All arithmetic is done in UTC.
package calendar

import (
	"fmt"
	"time"
)

const keyLayout = "2006-01-02"

// Date is a decomposed day key. It is not validated against the calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// MalformedKeyError reports a day key that is not in YYYY-MM-DD form.
type MalformedKeyError struct {
	Key string
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed day key %q", e.Key)
}

// Parse splits a zero-padded YYYY-MM-DD key into its parts.
func Parse(key string) (Date, error) {
	if len(key) != 10 || key[4] != '-' || key[7] != '-' {
		return Date{}, &MalformedKeyError{Key: key}
	}
	year, ok := digits(key[0:4])
	if !ok {
		return Date{}, &MalformedKeyError{Key: key}
	}
	month, ok := digits(key[5:7])
	if !ok {
		return Date{}, &MalformedKeyError{Key: key}
	}
	day, ok := digits(key[8:10])
	if !ok {
		return Date{}, &MalformedKeyError{Key: key}
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Key formats a date as YYYY-MM-DD. Out-of-range parts are kept as-is.
func Key(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// String returns the day key of d.
func (d Date) String() string {
	return Key(d.Year, d.Month, d.Day)
}

// Time returns midnight UTC of d, normalizing overflowing parts.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FromTime returns the UTC day key of t.
func FromTime(t time.Time) string {
	return t.UTC().Format(keyLayout)
}

// WeekStart returns the key of the first day of the week containing key.
// Weeks start on Monday when mondayStart is set, otherwise on Sunday.
func WeekStart(key string, mondayStart bool) (string, error) {
	d, err := Parse(key)
	if err != nil {
		return "", err
	}
	t := d.Time()
	offset := int(t.Weekday())
	if mondayStart {
		offset = (offset + 6) % 7
	}
	return FromTime(t.AddDate(0, 0, -offset)), nil
}

// MonthKey returns the YYYY-MM prefix of key.
func MonthKey(key string) (string, error) {
	d, err := Parse(key)
	if err != nil {
		return "", err
	}
	return d.String()[:7], nil
}

// AddDays shifts key by n days.
func AddDays(key string, n int) (string, error) {
	d, err := Parse(key)
	if err != nil {
		return "", err
	}
	return FromTime(d.Time().AddDate(0, 0, n)), nil
}
