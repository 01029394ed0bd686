package util

import (
	"golang.org/x/crypto/bcrypt"
)

// defaultHashCost trades login latency for brute-force resistance. Both
// registration and login pay it on every request.
const defaultHashCost = 12

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, defaultHashCost)
}

// HashPasswordWithCost hashes with an explicit bcrypt cost, for callers that
// need a cheaper hash (bulk seeding, tests).
func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword reports whether the plaintext matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
