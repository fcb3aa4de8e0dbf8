// Package hash stores and verifies passwords as bcrypt digests.
package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/bookly/internal/domain"
)

// Cost is the work factor used for new digests.
var Cost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword digests password. Inputs over MaxPasswordBytes are a client
// error and match domain.ErrValidation as well as bcrypt.ErrPasswordTooLong.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %w", &domain.Error{
				Code:       domain.CodeValidation,
				Message:    domain.ErrValidation.Message,
				Resolution: fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes),
			}, err)
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches digest. A malformed digest
// never matches.
func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NeedsRehash reports whether digest was made with a cost other than Cost.
func NeedsRehash(digest string) bool {
	c, err := bcrypt.Cost([]byte(digest))
	return err != nil || c != Cost
}
