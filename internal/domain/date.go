package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for all calendar dates in the data file
// and the API ("2025-06-01").
const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to and from
// a "YYYY-MM-DD" JSON string. The zero Date is usable and equals the zero
// time.Time truncated to a day.
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string { return d.t.Format(dateLayout) }

// Time returns the underlying midnight-UTC time.
func (d Date) Time() time.Time { return d.t }

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
