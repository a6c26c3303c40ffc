// Package calendar holds the calendar-date value used everywhere a booking
// date is compared. A Date carries no time-of-day and no location, so two
// values naming the same business day are always equal.
package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the wire format of a date-only value.
const Layout = "2006-01-02"

// middayHour is the time-of-day a timestamp is pinned to before its day is read.
const middayHour = 12

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the date for y-m-d, normalizing overflowing days or months the
// same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, middayHour, 0, 0, 0, time.UTC))
}

// FromTime pins t to midday in its own location and keeps year, month and day.
func FromTime(t time.Time) Date {
	pinned := time.Date(t.Year(), t.Month(), t.Day(), middayHour, 0, 0, 0, t.Location())
	return Date{Year: pinned.Year(), Month: pinned.Month(), Day: pinned.Day()}
}

// Today is the calendar date of now in now's location.
func Today(now time.Time) Date {
	return FromTime(now)
}

// Parse accepts a date-only string (read as year, month, day with no zone
// conversion) or a timestamp string (pinned to midday before reading the day).
func Parse(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, fmt.Errorf("calendar: empty date")
	}

	if len(value) == len(Layout) {
		t, err := time.Parse(Layout, value)
		if err != nil {
			return Date{}, fmt.Errorf("calendar: invalid date %q: %w", value, err)
		}
		return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("calendar: invalid date %q", value)
}

// MustParse is Parse for literals known to be valid.
func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the date at midday UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, middayHour, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or +1 comparing year, month and day in that order.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Equal(other Date) bool  { return d.Compare(other) == 0 }
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

// Within reports whether start <= d <= end.
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysBetween is the signed number of days from start to end.
func DaysBetween(start, end Date) int {
	return int(end.Time().Sub(start.Time()).Round(time.Hour).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, a date or timestamp string, or a JSON number
// holding Unix milliseconds.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*d = Date{}
			return nil
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	millis, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("calendar: invalid date value %s", string(data))
	}
	*d = FromTime(time.UnixMilli(millis).UTC())
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
