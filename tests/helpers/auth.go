package helpers

import (
	"crypto/rand"
	"math/big"
	"testing"
	"time"

	"github.com/lehae/lehae-api/internal/services"
)

// TestJWTSecret signs tokens in tests. Never use outside of tests.
const TestJWTSecret = "test-secret"

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// AccessToken issues a short-lived access token for the user
func AccessToken(t *testing.T, userID uint64) string {
	t.Helper()
	pair, err := services.IssueTokenPair([]byte(TestJWTSecret), userID, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token pair: %v", err)
	}
	return pair.Access
}

// RefreshToken issues a refresh token for the user
func RefreshToken(t *testing.T, userID uint64) string {
	t.Helper()
	pair, err := services.IssueTokenPair([]byte(TestJWTSecret), userID, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token pair: %v", err)
	}
	return pair.Refresh
}
