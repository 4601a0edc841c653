package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateSuggestion is one precomputed start-date option.
type DateSuggestion struct {
	Date  time.Time
	Label string
}

// nextWeekday returns the next occurrence of weekday strictly after d.
func nextWeekday(d time.Time, weekday time.Weekday) time.Time {
	days := int(weekday) - int(d.Weekday())
	if days <= 0 {
		days += 7
	}
	return d.AddDate(0, 0, days)
}

// nextMonthDay returns the given day in the month after d, clamped to the
// month's last day.
func nextMonthDay(d time.Time, day int) time.Time {
	year, month := d.Year(), int(d.Month())+1
	if month > 12 {
		year++
		month = 1
	}
	if last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, d.Location()).Day(); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, d.Location())
}

// startDateSuggestions builds the offered first-installment dates
// relative to today.
func startDateSuggestions(today time.Time) []DateSuggestion {
	return []DateSuggestion{
		{today, "🗓️ Hoje"},
		{today.AddDate(0, 0, 1), "📅 Amanhã"},
		{nextWeekday(today, time.Monday), "📅 Próxima segunda"},
		{nextMonthDay(today, 5), "📅 Dia 5 do próximo mês"},
		{nextMonthDay(today, 15), "📅 Dia 15 do próximo mês"},
	}
}

// formatCurrency renders an amount in Brazilian convention: R$ 1.234,56.
func formatCurrency(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart := s[:len(s)-3]
	frac := s[len(s)-2:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, strings.Join(groups, "."), frac)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatShortDate(t time.Time) string {
	return t.Format("02/01")
}
