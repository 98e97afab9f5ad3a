// Package password provides the credential hashing primitive used by the
// identity operations. Hashing is bcrypt with a fixed work factor; the salt is
// generated per call and embedded in the output.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor applied to new hashes.
const DefaultCost = 10

// BcryptHasher hashes and verifies passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given work factor. A cost of 0
// selects DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash applies the salted one-way transform. Two calls with equal input yield
// different outputs because the salt is drawn fresh each time.
func (h *BcryptHasher) Hash(pw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether pw matches hash. A mismatch is (false, nil); only a
// malformed hash produces an error.
func (h *BcryptHasher) Verify(pw, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify password: %w", err)
}
