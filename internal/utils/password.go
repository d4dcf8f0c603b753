package utils

import (
	"fmt" // Error wrapping

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of a password at the given cost
func HashPassword(password string, cost int) (string, error) {
	const op = "utils.HashPassword"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plain password.
// It returns nil on a match.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
