package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for passwords and refresh tokens.
const PasswordCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken hashes long opaque tokens (JWTs) with bcrypt. The token is
// pre-hashed with SHA-256 because bcrypt only accepts 72 bytes of input.
func HashToken(token string) (string, error) {
	return HashPassword(digest(token))
}

func CheckTokenHash(token, hash string) bool {
	return CheckPasswordHash(digest(token), hash)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
