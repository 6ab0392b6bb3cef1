package model

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DateLayout is the calendar-date format used in booking forms and requests.
const DateLayout = "2006-01-02"

// Date is a calendar date.  The backend returns dates either as plain
// "2006-01-02" strings or as RFC 3339 timestamps at midnight; both decode.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" or RFC 3339 string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
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

// Nights is the number of nights between check-in and check-out.  Partial
// days round up, matching the backend's price computation.
func Nights(checkIn, checkOut Date) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	hours := checkOut.Sub(checkIn.Time).Hours()
	if hours <= 0 {
		return 0
	}
	n := int(hours / 24)
	if float64(n*24) < hours {
		n++
	}
	return n
}

// TotalPrice is nights × nightly rate, or zero when the range is empty.
func TotalPrice(nightly float64, checkIn, checkOut Date) float64 {
	return float64(Nights(checkIn, checkOut)) * nightly
}
