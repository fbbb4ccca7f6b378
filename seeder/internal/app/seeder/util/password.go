package util

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("demo password is empty")

// DemoPasswordHash hashes the password shared by every seeded account and
// verifies the hash before it is written to thousands of documents.
func DemoPasswordHash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash demo password: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", fmt.Errorf("demo password hash does not verify: %w", err)
	}
	return string(hash), nil
}
