package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// pendingWindow is how far ahead a future record still counts as pending
// rather than scheduled.
const pendingWindow = 7 * 24 * time.Hour

// InstallmentAmount returns the even per-installment share of total,
// rounded to cents.
func InstallmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

// InstallmentAmounts splits total into count parts that sum exactly to
// total. Every part is the rounded even share; the last part absorbs the
// rounding remainder.
func InstallmentAmounts(total decimal.Decimal, count int) []decimal.Decimal {
	each := InstallmentAmount(total, count)
	amounts := make([]decimal.Decimal, count)
	for i := 0; i < count-1; i++ {
		amounts[i] = each
	}
	amounts[count-1] = total.Sub(each.Mul(decimal.NewFromInt(int64(count - 1))))
	return amounts
}

// InstallmentDate returns start shifted forward by index calendar months.
// The day of month is preserved when the target month has it, otherwise
// clamped to the target month's last day.
func InstallmentDate(start time.Time, index int) time.Time {
	year := start.Year()
	month := int(start.Month()) + index
	for month > 12 {
		year++
		month -= 12
	}

	day := start.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, start.Location())
}

// LastInstallmentDate returns the due date of the final installment.
func LastInstallmentDate(start time.Time, count int) time.Time {
	return InstallmentDate(start, count-1)
}

// StatusForDate derives a record's status from its date: past or today is
// paid, within the next seven days is pending, further out is scheduled.
func StatusForDate(date, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case !day.After(today):
		return StatusPaid
	case !day.After(today.Add(pendingWindow)):
		return StatusPending
	default:
		return StatusScheduled
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
