package parse

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors returned by the parsing helpers. Flows match on these
// to decide whether to re-prompt the current step.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// Amount parses a free-text monetary value into a decimal.
//
// Both Brazilian ("1.350,50") and plain ("1350.50") conventions are accepted:
// when both separators are present, the rightmost one is the decimal point and
// the other is stripped as a thousands separator; a single separator of either
// kind is always the decimal point. Currency symbols and whitespace are
// ignored. Non-positive results are rejected.
func Amount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastComma >= 0:
		// Repeated commas with no dot ("1,350,50") keep only the last as decimal.
		s = strings.Replace(s[:lastComma], ",", "", -1) + "." + s[lastComma+1:]
	case lastDot >= 0:
		// Repeated dots keep only the last as decimal.
		s = strings.Replace(s[:lastDot], ".", "", -1) + "." + s[lastDot+1:]
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !value.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	return value, nil
}
