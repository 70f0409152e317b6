package utils

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error = %v", err)
	}
	if hash == "secret1" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPasswordHash("secret1", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("secret2", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashTokenLongInput(t *testing.T) {
	// JWTs are well past bcrypt's 72-byte input limit
	prefix := strings.Repeat("a", 100)
	token := prefix + "-one"
	other := prefix + "-two"

	hash, err := HashToken(token)
	if err != nil {
		t.Fatalf("HashToken error = %v", err)
	}
	if !CheckTokenHash(token, hash) {
		t.Error("token rejected")
	}
	if CheckTokenHash(other, hash) {
		t.Error("token sharing a 100-byte prefix accepted")
	}
}
