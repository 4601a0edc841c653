package auth

import "strings"

// Strength labels, ordered weakest to strongest. Issue strings and labels
// are Portuguese because they are shown to the user as-is.
const (
	StrengthVeryWeak   = "Muito Fraca"
	StrengthWeak       = "Fraca"
	StrengthMedium     = "Média"
	StrengthStrong     = "Forte"
	StrengthVeryStrong = "Muito Forte"
)

// commonPasswords is a small denylist of passwords that are rejected outright.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"123456":      {},
	"123456789":   {},
	"qwerty":      {},
	"abc123":      {},
	"password123": {},
	"12345678":    {},
	"admin":       {},
	"letmein":     {},
	"welcome":     {},
}

// PasswordScore is the result of the rule-based password strength check.
type PasswordScore struct {
	Valid    bool
	Score    int // 0-10
	Strength string
	Issues   []string
}

// ScorePassword applies deterministic strength rules to a candidate password.
// Valid is true only when no issue was found.
func ScorePassword(password string) PasswordScore {
	var issues []string
	score := 0

	switch {
	case len(password) < 8:
		issues = append(issues, "Senha deve ter pelo menos 8 caracteres")
	case len(password) >= 12:
		score += 2
	default:
		score++
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}

	if hasLower {
		score++
	} else {
		issues = append(issues, "Senha deve conter pelo menos uma letra minúscula")
	}
	if hasUpper {
		score++
	} else {
		issues = append(issues, "Senha deve conter pelo menos uma letra maiúscula")
	}
	if hasDigit {
		score++
	} else {
		issues = append(issues, "Senha deve conter pelo menos um número")
	}
	if hasSpecial {
		score += 2
	} else {
		issues = append(issues, "Senha deve conter pelo menos um caractere especial")
	}

	// Repetition check: too few distinct characters relative to length.
	distinct := make(map[rune]struct{})
	for _, r := range password {
		distinct[r] = struct{}{}
	}
	if float64(len(distinct)) < float64(len(password))*0.7 {
		issues = append(issues, "Senha tem muitos caracteres repetidos")
	} else {
		score++
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		issues = append(issues, "Senha muito comum, escolha uma mais segura")
		score -= 3
		if score < 0 {
			score = 0
		}
	}

	if score > 10 {
		score = 10
	}

	return PasswordScore{
		Valid:    len(issues) == 0,
		Score:    score,
		Strength: strengthLabel(score),
		Issues:   issues,
	}
}

func strengthLabel(score int) string {
	switch {
	case score <= 2:
		return StrengthVeryWeak
	case score <= 4:
		return StrengthWeak
	case score <= 6:
		return StrengthMedium
	case score <= 8:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}
