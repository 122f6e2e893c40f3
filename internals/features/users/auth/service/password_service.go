package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword: SHA-256 hex tanpa salt. Deterministik, sama dengan hash yang sudah
// tersimpan di tabel users lama.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// CheckPasswordHash menerima hash SHA-256 hex (format lama) maupun bcrypt ($2a$/$2b$/$2y$).
func CheckPasswordHash(stored, plain string) bool {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	computed := HashPassword(plain)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(computed)) == 1
}
