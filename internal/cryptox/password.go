// Package cryptox hashes and verifies user passwords with bcrypt.
package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches ten rounds of the bcrypt key schedule.
const DefaultCost = 10

// PasswordHasher is what the auth and settings services depend on.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher salts every call with fresh randomness, so two hashes of the
// same password never match byte for byte.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher uses DefaultCost for a cost below bcrypt.MinCost and
// caps it at bcrypt.MaxCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify is false for a mismatch and for a digest bcrypt cannot parse.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
