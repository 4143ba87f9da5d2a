package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format used for calendar dates.
	DateLayout = "2006-01-02"
	// MonthLayout is the wire format used for calendar months.
	MonthLayout = "2006-01"

	day = 24 * time.Hour
)

var (
	// ErrInvertedPeriod is returned when a period ends before it starts.
	ErrInvertedPeriod = errors.New("period end is before period start")
	// ErrInvalidMonth is returned for month values not in YYYY-MM form.
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")
	// ErrInvalidDate is returned for dates that are neither YYYY-MM-DD nor RFC 3339.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD or RFC 3339")
)

// Month identifies a calendar month as "YYYY-MM". Salary adjustments and bill
// payments are keyed by it.
type Month string

// ParseMonth validates and normalizes a YYYY-MM value.
func ParseMonth(value string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, value)
	}
	return Month(t.Format(MonthLayout)), nil
}

// MonthOf returns the month containing t, evaluated in t's location.
func MonthOf(t time.Time) Month {
	return Month(t.Format(MonthLayout))
}

// Valid reports whether m is a well-formed month.
func (m Month) Valid() bool {
	_, err := time.Parse(MonthLayout, string(m))
	return err == nil
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	t, err := time.Parse(MonthLayout, string(m))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// End returns the last instant of the month in UTC.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Prev returns the previous calendar month.
func (m Month) Prev() Month { return MonthOf(m.Start().AddDate(0, -1, 0)) }

// Next returns the following calendar month.
func (m Month) Next() Month { return MonthOf(m.Start().AddDate(0, 1, 0)) }

func (m Month) String() string { return string(m) }

// LastMonths returns n consecutive months ending with (and including) end, oldest first.
func LastMonths(end Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, n)
	current := end
	for i := n - 1; i >= 0; i-- {
		months[i] = current
		current = current.Prev()
	}
	return months
}

// Period is an inclusive time range used to scope calculations.
type Period struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// NewPeriod builds a period, rejecting ranges that end before they start.
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvertedPeriod, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

// ParsePeriod parses both bounds with ParseDate. A date-only end bound covers
// the whole day.
func ParsePeriod(start, end string) (Period, error) {
	from, _, err := ParseDate(start)
	if err != nil {
		return Period{}, fmt.Errorf("start: %w", err)
	}
	to, dateOnly, err := ParseDate(end)
	if err != nil {
		return Period{}, fmt.Errorf("end: %w", err)
	}
	if dateOnly {
		to = EndOfDay(to)
	}
	return NewPeriod(from, to)
}

// MonthPeriod covers a whole calendar month in UTC. Entity dates are calendar
// dates stored at UTC midnight, so the reporting timezone never shifts them
// across a month boundary.
func MonthPeriod(m Month) Period {
	return Period{Start: m.Start(), End: m.End()}
}

// Contains reports whether t falls within the period, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// ProrationDays is the period length in days, rounded up. A zero-length
// period has zero proration days.
func (p Period) ProrationDays() int {
	d := p.End.Sub(p.Start)
	if d <= 0 {
		return 0
	}
	n := d / day
	if d%day != 0 {
		n++
	}
	return int(n)
}

// CalendarDays is ProrationDays floored at one, used for daily averages.
func (p Period) CalendarDays() int {
	return max(1, p.ProrationDays())
}

// OverheadMonth is the month whose recurring overhead is prorated over the period.
func (p Period) OverheadMonth() Month {
	return MonthOf(p.Start.UTC())
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

// ParseDate accepts YYYY-MM-DD (UTC midnight) or RFC 3339. dateOnly reports
// which form was used.
func ParseDate(value string) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// EndOfDay returns the last instant of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Add(day - time.Nanosecond)
}
