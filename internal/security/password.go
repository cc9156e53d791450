package security

import "golang.org/x/crypto/bcrypt"

// Hasher is the credential abstraction the account directory depends on,
// so tests can swap a cheap implementation in.
type Hasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) error
}

// Bcrypt is the production Hasher.
type Bcrypt struct{}

func (Bcrypt) Hash(plain string) (string, error) {
	return HashPassword(plain)
}

func (Bcrypt) Check(hash, plain string) error {
	return CheckPassword(hash, plain)
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
