package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes of its input
	maxPasswordLength = 72
)

var (
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", maxPasswordLength)
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// passwordCost is a var so tests can hash at bcrypt.MinCost
var passwordCost = bcrypt.DefaultCost

// HashPassword validates a plaintext password and returns its bcrypt hash.
func HashPassword(password string) (string, error) {
	switch {
	case len(password) < minPasswordLength:
		return "", ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns ErrInvalidCredentials when password does not match hash.
// A hash that is not bcrypt at all is reported as its own error.
func VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("verify password: %w", err)
	}
}
