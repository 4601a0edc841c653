package flow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextWeekday(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"from sunday", day(2025, 6, 15), day(2025, 6, 16)},
		{"from monday skips to next week", day(2025, 6, 16), day(2025, 6, 23)},
		{"from saturday", day(2025, 6, 21), day(2025, 6, 23)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextWeekday(tt.from, time.Monday); !got.Equal(tt.want) {
				t.Errorf("nextWeekday(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestNextMonthDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		day  int
		want time.Time
	}{
		{"plain", day(2025, 6, 15), 5, day(2025, 7, 5)},
		{"year rollover", day(2025, 12, 20), 15, day(2026, 1, 15)},
		{"clamped to short month", day(2025, 1, 31), 31, day(2025, 2, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextMonthDay(tt.from, tt.day); !got.Equal(tt.want) {
				t.Errorf("nextMonthDay(%s, %d) = %s, want %s", tt.from, tt.day, got, tt.want)
			}
		})
	}
}

func TestStartDateSuggestions(t *testing.T) {
	today := day(2025, 6, 16) // a Monday
	sugs := startDateSuggestions(today)
	if len(sugs) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(sugs))
	}
	if !sugs[0].Date.Equal(today) {
		t.Errorf("first suggestion = %s, want today", sugs[0].Date)
	}
	if !sugs[1].Date.Equal(day(2025, 6, 17)) {
		t.Errorf("second suggestion = %s, want tomorrow", sugs[1].Date)
	}
	if !sugs[2].Date.Equal(day(2025, 6, 23)) {
		t.Errorf("next monday = %s, want 2025-06-23", sugs[2].Date)
	}
	if !sugs[3].Date.Equal(day(2025, 7, 5)) || !sugs[4].Date.Equal(day(2025, 7, 15)) {
		t.Errorf("next month days = %s, %s", sugs[3].Date, sugs[4].Date)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"95", "R$ 95,00"},
		{"1350.5", "R$ 1.350,50"},
		{"1234567.89", "R$ 1.234.567,89"},
		{"-850.5", "-R$ 850,50"},
	}
	for _, tt := range tests {
		if got := formatCurrency(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("formatCurrency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
