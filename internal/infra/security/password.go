package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor applied when the caller does not
// supply one.
const DefaultBcryptCost = 12

var (
	// ErrHashingFailure indicates the hashing primitive itself failed. Fatal to the operation, not retryable.
	ErrHashingFailure = errors.New("password hashing failed")
	// ErrInvalidHashFormat indicates the stored value is not a recognizable bcrypt hash.
	ErrInvalidHashFormat = errors.New("invalid password hash format")
)

// HashPassword generates a bcrypt hash for the provided password with a
// tunable cost factor. The salt is random, so the same password hashed twice
// never produces the same output.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}

	return string(hash), nil
}

// VerifyPassword compares the provided password against a stored bcrypt hash.
// A mismatch is a normal false outcome; an unparseable hash is ErrInvalidHashFormat.
// bcrypt's comparison is constant-time over the derived key.
func VerifyPassword(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
}
