package auth

import "golang.org/x/crypto/bcrypt"

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 6
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// HashPassword creates a salted bcrypt hash of the password.
// The plaintext never leaves this function's scope.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a candidate password with its stored bcrypt hash.
// Returns nil on match.
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
