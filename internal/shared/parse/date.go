package parse

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrDateTooOld  = errors.New("date is too far in the past")
)

// maxPastDays is how far back a custom installment start date may be.
const maxPastDays = 30

// DateKeywords holds the locale-specific keyword set recognized by Date.
// The defaults accept both Portuguese and English.
type DateKeywords struct {
	Today     []string
	Yesterday []string
}

// DefaultDateKeywords is used by Date; callers with their own locale
// configuration use DateWith.
var DefaultDateKeywords = DateKeywords{
	Today:     []string{"hoje", "today"},
	Yesterday: []string{"ontem", "yesterday"},
}

// Date parses a free-text date: a keyword ("hoje"/"today", "ontem"/
// "yesterday"), "DD/MM" (current year assumed) or "DD/MM/YYYY".
// Impossible calendar dates are rejected.
func Date(text string, today time.Time) (time.Time, error) {
	return DateWith(text, today, DefaultDateKeywords)
}

// DateWith is Date with an explicit keyword set.
func DateWith(text string, today time.Time, kw DateKeywords) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	day0 := Midnight(today)

	for _, k := range kw.Today {
		if s == k {
			return day0, nil
		}
	}
	for _, k := range kw.Yesterday {
		if s == k {
			return day0.AddDate(0, 0, -1), nil
		}
	}

	parts := strings.Split(s, "/")
	var dayS, monthS, yearS string
	switch len(parts) {
	case 2:
		dayS, monthS, yearS = parts[0], parts[1], strconv.Itoa(today.Year())
	case 3:
		dayS, monthS, yearS = parts[0], parts[1], parts[2]
	default:
		return time.Time{}, ErrInvalidDate
	}

	day, err := strconv.Atoi(dayS)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	month, err := strconv.Atoi(monthS)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	year, err := strconv.Atoi(yearS)
	if err != nil || year < 1 {
		return time.Time{}, ErrInvalidDate
	}

	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// FutureDate parses a date like Date but additionally rejects results more
// than 30 days in the past. Used for installment start dates.
func FutureDate(text string, today time.Time) (time.Time, error) {
	return FutureDateWith(text, today, DefaultDateKeywords)
}

// FutureDateWith is FutureDate with an explicit keyword set.
func FutureDateWith(text string, today time.Time, kw DateKeywords) (time.Time, error) {
	d, err := DateWith(text, today, kw)
	if err != nil {
		return time.Time{}, err
	}
	if d.Before(Midnight(today).AddDate(0, 0, -maxPastDays)) {
		return time.Time{}, ErrDateTooOld
	}
	return d, nil
}

// Midnight truncates t to the start of its day in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
