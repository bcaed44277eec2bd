// Package password provides the password hashing capability used by the
// authentication orchestration. The service layer only sees the Hasher
// interface.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies login passwords.
type Hasher interface {
	// Hash returns an encoded hash of the given password.
	Hash(password string) (string, error)

	// Compare reports whether the password matches the encoded hash.
	Compare(hash string, password string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a BcryptHasher with the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether the password matches the hash.
func (h *BcryptHasher) Compare(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
