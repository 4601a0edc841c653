package transaction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInstallmentDate(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		index int
		want  time.Time
	}{
		{"same month", date(2025, time.March, 10), 0, date(2025, time.March, 10)},
		{"next month", date(2025, time.March, 10), 1, date(2025, time.April, 10)},
		{"clamp to non-leap february", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"clamp to leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"year rollover with clamp", date(2025, time.November, 30), 3, date(2026, time.February, 28)},
		{"31st to 30-day month", date(2025, time.May, 31), 1, date(2025, time.June, 30)},
		{"plain year rollover", date(2025, time.December, 15), 1, date(2026, time.January, 15)},
		{"two years out", date(2025, time.January, 5), 24, date(2027, time.January, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InstallmentDate(tt.start, tt.index)
			if !got.Equal(tt.want) {
				t.Errorf("InstallmentDate(%v, %d) = %v, want %v", tt.start, tt.index, got, tt.want)
			}
		})
	}
}

func TestLastInstallmentDate(t *testing.T) {
	got := LastInstallmentDate(date(2025, time.February, 10), 12)
	want := date(2026, time.January, 10)
	if !got.Equal(want) {
		t.Errorf("LastInstallmentDate = %v, want %v", got, want)
	}
}

func TestInstallmentAmount(t *testing.T) {
	got := InstallmentAmount(decimal.NewFromInt(1200), 12)
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("InstallmentAmount(1200, 12) = %s, want 100", got)
	}

	got = InstallmentAmount(decimal.NewFromInt(1000), 3)
	if !got.Equal(decimal.RequireFromString("333.33")) {
		t.Errorf("InstallmentAmount(1000, 3) = %s, want 333.33", got)
	}
}

func TestInstallmentAmounts_SumExactly(t *testing.T) {
	tests := []struct {
		total string
		count int
	}{
		{"1000", 3},
		{"1200", 12},
		{"100", 7},
		{"99.99", 4},
		{"250.50", 6},
	}

	for _, tt := range tests {
		total := decimal.RequireFromString(tt.total)
		amounts := InstallmentAmounts(total, tt.count)
		if len(amounts) != tt.count {
			t.Fatalf("expected %d parts, got %d", tt.count, len(amounts))
		}

		sum := decimal.Zero
		for _, a := range amounts {
			sum = sum.Add(a)
		}
		if !sum.Equal(total) {
			t.Errorf("parts of %s/%d sum to %s", tt.total, tt.count, sum)
		}

		// All parts except the last are the even share.
		each := InstallmentAmount(total, tt.count)
		for i := 0; i < tt.count-1; i++ {
			if !amounts[i].Equal(each) {
				t.Errorf("part %d = %s, want %s", i, amounts[i], each)
			}
		}
	}
}

func TestStatusForDate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"past", date(2025, time.June, 1), StatusPaid},
		{"today", date(2025, time.June, 15), StatusPaid},
		{"tomorrow", date(2025, time.June, 16), StatusPending},
		{"seventh day", date(2025, time.June, 22), StatusPending},
		{"eighth day", date(2025, time.June, 23), StatusScheduled},
		{"far future", date(2026, time.January, 1), StatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusForDate(tt.date, now); got != tt.want {
				t.Errorf("StatusForDate(%v) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}
