package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used for every submitted date.
const DateLayout = "2006-01-02"

// Date is a calendar date. It always serializes as yyyy-MM-dd, but accepts
// full timestamps on decode because some backend responses carry them.
type Date struct {
	time.Time
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date from year/month/day components.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as "yyyy-MM-dd". The zero value renders as "".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "", yyyy-MM-dd or an RFC3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*d = Date{}
		return nil
	}

	if t, err := time.Parse(DateLayout, value); err == nil {
		*d = Date{Time: t}
		return nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("unmarshal date %q: %w", value, err)
	}
	*d = Date{Time: t}
	return nil
}
