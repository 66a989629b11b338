package models

import (
	"encoding/json"
	"errors"
	"time"
)

// DateLayout is the only accepted wire format for dates: two-digit day,
// two-digit month, four-digit year.
const DateLayout = "02.01.2006"

// ErrDateFormat is returned for strings that are not a real dd.mm.yyyy date.
var ErrDateFormat = errors.New("date must be a valid date in DD.MM.YYYY format")

// Date is a calendar date without time of day. The zero value is not a
// valid birth date.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate parses a dd.mm.yyyy string. Strings of any length other than ten
// characters are rejected even if they would otherwise parse, so "1.1.2019"
// is invalid while "01.01.2019" is accepted.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, ErrDateFormat
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, ErrDateFormat
	}
	return Date{t: t}, nil
}

func (d Date) String() string { return d.t.Format(DateLayout) }
func (d Date) Time() time.Time { return d.t }
func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) ISO() string { return d.t.Format(time.DateOnly) }

// AgeAt returns the number of whole years between the date and today (the
// calendar date of now in UTC). Years are counted by anniversaries: someone
// born on 29 February has their anniversary on 28 February in non-leap
// years.
func (d Date) AgeAt(now time.Time) int {
	y, m, day := now.UTC().Date()
	age := y - d.Year()
	am, ad := d.Month(), d.Day()
	if am == time.February && ad == 29 && !isLeap(y) {
		ad = 28
	}
	if m < am || (m == am && day < ad) {
		age--
	}
	return age
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrDateFormat
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
