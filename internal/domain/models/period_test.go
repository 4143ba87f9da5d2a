package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    Month
		wantErr bool
	}{
		{in: "2024-12", want: "2024-12"},
		{in: " 2024-01 ", want: "2024-01"},
		{in: "2024-13", wantErr: true},
		{in: "12-2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMonth) {
					t.Fatalf("ParseMonth(%q) error = %v, want ErrInvalidMonth", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseMonth(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	m := Month("2024-02")
	if got := m.Start(); !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Start = %v", got)
	}
	if got := m.End(); got.Day() != 29 || got.Month() != time.February {
		t.Fatalf("End = %v, want last instant of Feb 29", got)
	}
	if m.Prev() != "2024-01" || m.Next() != "2024-03" {
		t.Fatalf("Prev/Next = %s/%s", m.Prev(), m.Next())
	}
	if Month("2024-01").Prev() != "2023-12" {
		t.Fatalf("Prev across year boundary failed")
	}
}

func TestMonthPeriodIsUTC(t *testing.T) {
	p := MonthPeriod("2024-12")
	if p.Start.Location() != time.UTC || p.End.Location() != time.UTC {
		t.Fatalf("bounds in %v/%v, want UTC", p.Start.Location(), p.End.Location())
	}
	if !p.Start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Start = %v", p.Start)
	}
	if !p.End.Equal(time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC)) {
		t.Fatalf("End = %v", p.End)
	}

	// A late-evening local time picks its own calendar month; the bounds of
	// that month stay in UTC and still hold a sale dated that day.
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, 1, 1, 1, 0, 0, 0, tokyo)
	if MonthOf(now) != "2025-01" {
		t.Fatalf("MonthOf(%v) = %s, want 2025-01", now, MonthOf(now))
	}
	if !MonthPeriod(MonthOf(now)).Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("January period should contain a sale dated 2025-01-01")
	}
}

func TestLastMonths(t *testing.T) {
	got := LastMonths("2024-02", 3)
	want := []Month{"2023-12", "2024-01", "2024-02"}
	if len(got) != len(want) {
		t.Fatalf("LastMonths len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LastMonths[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if LastMonths("2024-02", 0) != nil {
		t.Fatalf("LastMonths with n=0 should be nil")
	}
}

func TestNewPeriodRejectsInverted(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewPeriod(start, start.Add(-time.Hour))
	if !errors.Is(err, ErrInvertedPeriod) {
		t.Fatalf("NewPeriod error = %v, want ErrInvertedPeriod", err)
	}
	if _, err := NewPeriod(start, start); err != nil {
		t.Fatalf("zero-length period should be accepted: %v", err)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("ParsePeriod: %v", err)
	}
	if !p.Contains(time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only end should cover the whole day")
	}
	if p.ProrationDays() != 31 {
		t.Fatalf("ProrationDays = %d, want 31", p.ProrationDays())
	}

	p, err = ParsePeriod("2024-01-01T00:00:00Z", "2024-01-31T00:00:00Z")
	if err != nil {
		t.Fatalf("ParsePeriod rfc3339: %v", err)
	}
	if p.ProrationDays() != 30 {
		t.Fatalf("ProrationDays = %d, want 30", p.ProrationDays())
	}

	if _, err := ParsePeriod("2024-02-01", "2024-01-01"); !errors.Is(err, ErrInvertedPeriod) {
		t.Fatalf("inverted range error = %v", err)
	}
	if _, err := ParsePeriod("yesterday", "2024-01-01"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad start error = %v", err)
	}
}

func TestPeriodDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		end       time.Time
		proration int
		calendar  int
	}{
		{name: "zero length", end: start, proration: 0, calendar: 1},
		{name: "one hour", end: start.Add(time.Hour), proration: 1, calendar: 1},
		{name: "exact days", end: start.AddDate(0, 0, 30), proration: 30, calendar: 30},
		{name: "month period", end: Month("2024-03").End(), proration: 31, calendar: 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Period{Start: start, End: tt.end}
			if got := p.ProrationDays(); got != tt.proration {
				t.Fatalf("ProrationDays = %d, want %d", got, tt.proration)
			}
			if got := p.CalendarDays(); got != tt.calendar {
				t.Fatalf("CalendarDays = %d, want %d", got, tt.calendar)
			}
		})
	}
}

func TestOverheadMonth(t *testing.T) {
	p := Period{Start: time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)}
	if got := p.OverheadMonth(); got != "2024-11" {
		t.Fatalf("OverheadMonth = %s, want 2024-11", got)
	}
}
