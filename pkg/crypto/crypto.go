package crypto

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// classCodeAlphabet excludes nothing; join codes are case-insensitive on entry
// but always issued in upper case.
const classCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateClassCode returns a random join code of the requested length drawn
// from the upper-case alphanumeric alphabet.
func GenerateClassCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(classCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = classCodeAlphabet[idx.Int64()]
	}
	return string(code), nil
}

// GenerateNumericCode returns a random numeric code of the requested number of
// digits, zero-padded, suitable for email verification.
func GenerateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	out := n.String()
	for len(out) < digits {
		out = "0" + out
	}
	return out, nil
}
