package hutch

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const allowedNameChars = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"_-. ()[]{}?!"

// IsAllowedName reports whether a user or file name uses only the allowed
// identifier characters. Names making it past this check are safe to join
// into a filesystem path.
func IsAllowedName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(allowedNameChars, r) {
			return false
		}
	}
	return true
}

// HashPassword returns the hex sha512 digest of a password. Hashing
// happens before the credential store sees the value, so the store only
// ever compares digests.
func HashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}

// NewSessionToken mints an unguessable session token: the hex sha256
// digest of fresh UUID material.
func NewSessionToken() string {
	id := uuid.New()
	sum := sha256.Sum256(id[:])
	return hex.EncodeToString(sum[:])
}
