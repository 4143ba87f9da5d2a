package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/repository/memory"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
)

func newDispatcher(t *testing.T) *Service {
	t.Helper()
	svc, err := analysis.NewService(memory.NewDemo(), config.AnalysisConfig{Currency: "USD", ProrationDivisor: 30, AllocationPolicy: "units"}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	d := NewService(svc, "USD", time.UTC, nil)
	d.now = func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }
	return d
}

func TestHandleCommandReports(t *testing.T) {
	d := newDispatcher(t)

	tests := []struct {
		message string
		wants   []string
	}{
		{"/revenue 2024-12", []string{"*Revenue 2024-12*", "$678.00 from 8 orders (150 units)", "- Cappuccino: $337.50 (75 units)"}},
		{"/costs 2024-12", []string{"*Costs 2024-12*", "Materials:", "Overhead:", "Total:"}},
		{"/profit 2024-12", []string{"*Monthly report 2024-12*", "Revenue: $678.00 (8 orders, 150 units)"}},
		{"/owners 2024-12", []string{"overhead of 2024-12", "Net profit: -$13,972.50"}},
		{"/bills last", []string{"*Bills 2024-12*", "3 paid, 0 pending, 2 overdue", "overdue since"}},
		{"/help", []string{"/revenue [month]"}},
		{"what's up", []string{"Unknown command.", "/bills [month]"}},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply, err := d.HandleCommand(context.Background(), models.ParseCommand(tt.message), "224600000001")
			if err != nil {
				t.Fatalf("HandleCommand: %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(reply, want) {
					t.Errorf("reply missing %q:\n%s", want, reply)
				}
			}
		})
	}
}

func TestHandleCommandMonthArgument(t *testing.T) {
	d := newDispatcher(t)

	tests := []struct {
		args []string
		want models.Month
	}{
		{nil, "2025-01"},
		{[]string{"this"}, "2025-01"},
		{[]string{"last"}, "2024-12"},
		{[]string{"previous"}, "2024-12"},
		{[]string{"2024-06"}, "2024-06"},
	}
	for _, tt := range tests {
		got, err := d.month(tt.args)
		if err != nil {
			t.Fatalf("month(%q): %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("month(%q) = %s, want %s", tt.args, got, tt.want)
		}
	}

	_, err := d.HandleCommand(context.Background(), models.ParseCommand("/costs 2024-13"), "")
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestAsOf(t *testing.T) {
	d := newDispatcher(t)

	if got := d.asOf("2024-12"); !got.Equal(models.Month("2024-12").End()) {
		t.Fatalf("past month asOf = %s", got)
	}
	if got := d.asOf("2025-01"); !got.Equal(d.now()) {
		t.Fatalf("current month asOf = %s", got)
	}
}
