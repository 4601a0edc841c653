package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	saltBytes  = 16
	bcryptCost = 12
)

// HashPassword hashes a plain text password using bcrypt over password+salt.
// The random hex salt is a defense-in-depth layer on top of bcrypt's own
// internal salt and must be stored alongside the hash.
func HashPassword(password string) (hash string, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)

	h, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), salt, nil
}

// VerifyPassword checks a plain text password against the stored hash and salt.
func VerifyPassword(password, hash, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+salt)) == nil
}
