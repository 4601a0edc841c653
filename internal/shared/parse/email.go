package parse

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether text looks like an email address
// (local@domain.tld with a TLD of at least two letters).
func ValidEmail(text string) bool {
	return emailPattern.MatchString(text)
}
