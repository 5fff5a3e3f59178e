package security

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Hash password hashes a plain text password with bcrypt.
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

// Credentials is the single login the service accepts.
type Credentials struct {
	username     string
	passwordHash string
}

// NewCredentials prefers an already hashed password and hashes plain otherwise.
func NewCredentials(username, plain, hash string) (*Credentials, error) {
	if hash == "" {
		h, err := HashPassword(plain)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	return &Credentials{username: username, passwordHash: hash}, nil
}

func (c *Credentials) Match(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := CheckPassword(c.passwordHash, password) == nil

	return userOK && passOK
}
