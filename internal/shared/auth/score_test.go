package auth

import "testing"

func TestScorePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantValid bool
		wantScore int
		strength  string
	}{
		{
			name:      "too short",
			password:  "abc",
			wantValid: false,
		},
		{
			name:      "all classes present",
			password:  "Abcdef12!",
			wantValid: true,
			wantScore: 7,
			strength:  StrengthStrong,
		},
		{
			name:      "long with all classes",
			password:  "Abcdefgh1234!xyz",
			wantValid: true,
			wantScore: 8,
			strength:  StrengthStrong,
		},
		{
			name:      "missing uppercase",
			password:  "abcdef12!",
			wantValid: false,
		},
		{
			name:      "missing special character",
			password:  "Abcdef123",
			wantValid: false,
		},
		{
			name:      "repeated characters",
			password:  "Aaaaaaa1!",
			wantValid: false,
		},
		{
			name:      "common password",
			password:  "password123",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScorePassword(tt.password)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (issues: %v)", got.Valid, tt.wantValid, got.Issues)
			}
			if tt.wantValid {
				if len(got.Issues) != 0 {
					t.Errorf("expected no issues, got %v", got.Issues)
				}
				if got.Score != tt.wantScore {
					t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
				}
				if got.Strength != tt.strength {
					t.Errorf("Strength = %q, want %q", got.Strength, tt.strength)
				}
			} else if len(got.Issues) == 0 {
				t.Error("expected at least one issue for invalid password")
			}
		})
	}
}

func TestScorePassword_IssuesInPortuguese(t *testing.T) {
	got := ScorePassword("abcdefgh!")

	want := []string{
		"Senha deve conter pelo menos uma letra maiúscula",
		"Senha deve conter pelo menos um número",
	}
	if len(got.Issues) != len(want) {
		t.Fatalf("Issues = %v, want %v", got.Issues, want)
	}
	for i, issue := range want {
		if got.Issues[i] != issue {
			t.Errorf("Issues[%d] = %q, want %q", i, got.Issues[i], issue)
		}
	}
}

func TestScorePassword_CommonPasswordPenalty(t *testing.T) {
	// "password123" earns points for length, lowercase and digits but
	// the denylist hit subtracts three.
	got := ScorePassword("password123")
	if got.Valid {
		t.Fatal("denylisted password must be invalid")
	}
	if got.Score > 2 {
		t.Errorf("expected penalized score <= 2, got %d", got.Score)
	}
	if got.Strength != StrengthVeryWeak {
		t.Errorf("Strength = %q, want %q", got.Strength, StrengthVeryWeak)
	}
}
